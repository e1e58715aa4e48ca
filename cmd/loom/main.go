// Command loom runs LLM workflow patterns defined in YAML flow files.
package main

func main() {
	Execute()
}
