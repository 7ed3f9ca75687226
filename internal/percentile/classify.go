package percentile

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

const (
	// Buckets is the number of percentile slices a sorted listing is cut into.
	Buckets = 100
	// OffenderBucket is the first bucket reported; everything below it is dropped.
	OffenderBucket = 95
	// LeafSuffix is stripped from item names before they are reported.
	LeafSuffix = ".json"
)

// Item is one named entry with its size in bytes.
type Item struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Overflow selects how bucket indices above 99 are treated.
type Overflow int

const (
	// OverflowClamp folds every index above 99 into bucket 99.
	OverflowClamp Overflow = iota
	// OverflowKeep reports indices above 99 as they fall, with offsets above 4.
	OverflowKeep
)

func (o Overflow) String() string {
	switch o {
	case OverflowClamp:
		return "clamp"
	case OverflowKeep:
		return "keep"
	default:
		return "unknown"
	}
}

// ParseOverflow maps a config or flag value onto an Overflow policy.
// The empty string selects OverflowClamp.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return OverflowClamp, nil
	case "keep":
		return OverflowKeep, nil
	default:
		return OverflowClamp, fmt.Errorf("overflow policy: unsupported value %q", s)
	}
}

// Options tunes classification.
type Options struct {
	Overflow Overflow
}

// Bucket is one percentile slice of the sorted listing.
type Bucket struct {
	Index   int
	Items   []Item
	MinSize int64
	MaxSize int64
}

// Count returns the number of items held by the bucket.
func (b Bucket) Count() int {
	return len(b.Items)
}

func (b *Bucket) add(it Item) {
	if len(b.Items) == 0 || it.Size < b.MinSize {
		b.MinSize = it.Size
	}
	if len(b.Items) == 0 || it.Size > b.MaxSize {
		b.MaxSize = it.Size
	}
	b.Items = append(b.Items, it)
}

// Entry is a reported offender.
type Entry struct {
	Name   string
	Offset int
	Size   int64
}

// Report holds the offenders sorted ascending by name.
type Report struct {
	Entries []Entry
}

// Len returns the number of reported offenders.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// Map returns the report as name -> offset. It never returns nil.
func (r *Report) Map() map[string]int {
	out := make(map[string]int, r.Len())
	if r == nil {
		return out
	}
	for _, e := range r.Entries {
		out[e.Name] = e.Offset
	}
	return out
}

// MarshalJSON encodes the report as an object keyed by name; encoding/json
// writes map keys in ascending order, which is the report order.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// StripSuffix removes a trailing ".json" from a leaf name.
func StripSuffix(name string) string {
	return strings.TrimSuffix(name, LeafSuffix)
}

// Histogram sorts items by size and deals them into percentile buckets.
// Every bucket index from 0 to the highest one reached is present, including
// empty ones. An empty input yields no buckets.
func Histogram(items []Item, opts Options) ([]Bucket, error) {
	if err := validate(items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.Size, b.Size)
	})

	// step is N/100; counter >= step is evaluated as counter*100 >= N to
	// stay in integers.
	n := len(sorted)
	indices := make([]int, n)
	counter, index := 0, 0
	for i := range sorted {
		counter++
		if counter*Buckets >= n {
			index++
			counter = 0
		}
		if opts.Overflow == OverflowClamp && index >= Buckets {
			indices[i] = Buckets - 1
		} else {
			indices[i] = index
		}
	}

	buckets := make([]Bucket, indices[n-1]+1)
	for i := range buckets {
		buckets[i].Index = i
	}
	for i, it := range sorted {
		buckets[indices[i]].add(it)
	}
	return buckets, nil
}

// Classify reports every item whose bucket is OffenderBucket or above,
// keyed by its name without the ".json" suffix and sorted by that name.
func Classify(items []Item, opts Options) (*Report, error) {
	buckets, err := Histogram(items, opts)
	if err != nil {
		return nil, err
	}
	report := &Report{Entries: []Entry{}}
	for _, b := range buckets {
		if b.Index < OffenderBucket {
			continue
		}
		for _, it := range b.Items {
			report.Entries = append(report.Entries, Entry{
				Name:   StripSuffix(it.Name),
				Offset: b.Index - OffenderBucket,
				Size:   it.Size,
			})
		}
	}
	slices.SortFunc(report.Entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return report, nil
}

// ClassifySizes classifies a name -> size mapping. Map iteration order is
// random, so entries are ordered by name first; equal sizes therefore keep
// name order.
func ClassifySizes(sizes map[string]int64, opts Options) (*Report, error) {
	return Classify(ItemsFromSizes(sizes), opts)
}

// ItemsFromSizes converts a mapping into items ordered by name.
func ItemsFromSizes(sizes map[string]int64) []Item {
	items := make([]Item, 0, len(sizes))
	for name, size := range sizes {
		items = append(items, Item{Name: name, Size: size})
	}
	slices.SortFunc(items, func(a, b Item) int {
		return strings.Compare(a.Name, b.Name)
	})
	return items
}

func validate(items []Item) error {
	seen := make(map[string]string, len(items))
	for _, it := range items {
		if it.Name == "" {
			return &InvalidInputError{Name: it.Name, Reason: "empty name"}
		}
		if it.Size < 0 {
			return &InvalidInputError{Name: it.Name, Reason: fmt.Sprintf("negative size %d", it.Size)}
		}
		key := StripSuffix(it.Name)
		if prev, ok := seen[key]; ok {
			if prev == it.Name {
				return &InvalidInputError{Name: it.Name, Reason: "duplicate name"}
			}
			return &InvalidInputError{Name: it.Name, Reason: fmt.Sprintf("collides with %q after stripping %s", prev, LeafSuffix)}
		}
		seen[key] = it.Name
	}
	return nil
}
