// Command leafstat profiles leaf files of an n-gram index and tokenizes text.
package main

func main() {
	Execute()
}
