// Command scoreboard joins a room on a live-scoring server and shows the
// score of its two players, either as a terminal UI or as plain lines.
package main

func main() {
	Execute()
}
