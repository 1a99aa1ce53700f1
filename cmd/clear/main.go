// Command clear wipes every chat entry from the durable store.
// Operational counterpart of the in-band "clear chat" event: it talks
// to BadgerDB directly and must run while the server is stopped.
package main

import (
	"chat-relay/repositories"
	"flag"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	defaultPath := os.Getenv("BADGER_FILEPATH")
	if defaultPath == "" {
		defaultPath = "./data/chat"
	}
	dbPath := flag.String("db", defaultPath, "Path to badger DB")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if err := db.DropPrefix([]byte(repositories.HistoryPrefix)); err != nil {
		log.Fatal("Error while clearing messages: ", err)
	}
	color.Green.Println("Chat messages cleared!")
}
