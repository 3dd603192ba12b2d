/*
Copyright © 2024 Norky101
*/
package main

import "github.com/Norky101/G-Calendar-Automation/cmd"

func main() {
	cmd.Execute()
}
