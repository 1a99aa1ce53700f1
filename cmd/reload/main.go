// Command reload signals a running chat-relay server to reload by
// sending SIGHUP to every process matching the given name.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/process"
)

func main() {
	name := flag.String("name", "chat-relay", "process name to reload")
	flag.Parse()

	processes, err := process.Processes()
	if err != nil {
		log.Fatal("Error listing processes: ", err)
	}

	reloaded := 0
	for _, p := range processes {
		pname, err := p.Name()
		if err != nil || pname != *name {
			continue
		}
		if int(p.Pid) == os.Getpid() {
			continue
		}
		if err := p.SendSignal(syscall.SIGHUP); err != nil {
			log.Printf("Failed to signal pid %d: %v", p.Pid, err)
			continue
		}
		fmt.Printf("Reload signal sent to %s (pid %d)\n", pname, p.Pid)
		reloaded++
	}
	if reloaded == 0 {
		log.Fatalf("No process named %q found", *name)
	}
}
