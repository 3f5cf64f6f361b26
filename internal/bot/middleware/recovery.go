package middleware

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic stops a panicking handler from taking down the
// gateway loop. Use with defer inside each interaction goroutine.
func RecoverFromPanic() {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Recovered from panic in interaction handler")
	}
}
