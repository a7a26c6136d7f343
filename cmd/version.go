package cmd

// Version is stamped at build time with -ldflags "-X github.com/frahmantamala/chat-admin/cmd.Version=...".
var Version = "0.0.0-dev"
