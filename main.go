package main

import "github.com/frahmantamala/chat-admin/cmd"

func main() {
	cmd.Execute()
}
