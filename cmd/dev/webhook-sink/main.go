// webhook-sink is a development helper: it listens for the status-change
// webhook posts the server emits and pretty-prints them, so the
// notification pipeline can be exercised locally without a real
// receiver. Point JOBTRAIL_NOTIFY_WEBHOOK_URL at it.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read error", http.StatusBadRequest)
			return
		}

		var pretty map[string]any
		if err := json.Unmarshal(body, &pretty); err != nil {
			log.Printf("received non-JSON payload: %s", body)
		} else {
			out, _ := json.MarshalIndent(pretty, "", "  ")
			log.Printf("received webhook:\n%s", out)
		}
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("webhook sink listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
