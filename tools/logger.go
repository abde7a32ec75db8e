package tools

import (
	"log"
	"time"
)

var isEnabled = true
var printTimestamp = false

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

func EnableLoggerTimestamp() {
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	printTimestamp = false
}

// LogOutput prints user-facing progress messages. Unlike the glog calls used
// for diagnostics, these can be silenced with the -silent flag.
func LogOutput(val ...interface{}) {
	if isEnabled {
		if printTimestamp {
			log.Println("[" + time.Now().Format("2006-01-02 15.04:05.000") + "] ")
		}
		log.Println(val...)
	}
}
