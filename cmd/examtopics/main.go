package main

import (
	"examtopics-viewer/cmd/examtopics/commands"
	"examtopics-viewer/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
