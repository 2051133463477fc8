// Command quadono is a quadrant task list with a pomodoro timer and alarms.
package main

import "github.com/twiced-technology-gmbh/quadono/cmd"

func main() {
	cmd.Execute()
}
