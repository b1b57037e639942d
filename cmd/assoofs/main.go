// Command assoofs inspects and mutates an assoofs image from the command
// line: ls, cat, mkdir, write and info.
package main

func main() {
	Execute()
}
