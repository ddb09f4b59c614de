package types

// Version is the application version, overwritten by -ldflags at build time
var Version = "dev"
