package main

type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=3000"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/chat"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	PublicDir      string `env:"PUBLIC_DIR,default=./public"`

	// Sink capacity per connection; sized above the history bound so a
	// join-time replay never drops entries while the socket drains.
	ConnectionBufferSize int `env:"CONNECTION_BUFFER_SIZE,default=128"`
}
