package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir(app.contentDir))

	// The index manifest must stay fresh so clients pick up new daily pools;
	// puzzle and solution documents are immutable by id.
	mux.Handle("/api/index.json", noStore(http.StripPrefix("/api", fileServer)))
	mux.Handle("/api/", http.StripPrefix("/api", fileServer))
	mux.HandleFunc("/api/healthy", app.healthy)

	chain := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return chain.Then(mux)
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
