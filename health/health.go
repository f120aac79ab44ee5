// Package health serves the keep-alive endpoint hosting platforms poll.
package health

import (
	"log"
	"net/http"
)

// Body is the fixed response every request gets.
const Body = "StreamVault Bot is running!"

// Handler answers every path with a 200 and the fixed body. It shares no
// state with the rest of the process.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(Body))
}

// ListenAndServe runs the health listener on the given port. It blocks, so
// callers start it on its own goroutine.
func ListenAndServe(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", Handler)

	log.Printf("Health check listening on port %s", port)
	return http.ListenAndServe(":"+port, mux)
}
