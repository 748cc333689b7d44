// Command tracksyncd runs one tracker sync and serves its progress over a
// small local HTTP API (/status, /healthz) for the duration of the run.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"tracksync/internal/config"
	"tracksync/internal/diag"
	"tracksync/internal/logging"
	"tracksync/pkg/tracksync"
)

var (
	apiAddr = flag.String("addr", "127.0.0.1:8420", "address for the local status API")
	banks   = flag.String("banks", "0,1,2", "comma-separated data bank indices to read")
	noAPI   = flag.Bool("no-api", false, "run a sync without starting the status API")
)

func main() {
	flag.Parse()
	cfg := config.MustLoad()

	log, err := logging.Open(cfg.LogOutput, "tracksyncd", logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	status := diag.NewServer(log)
	if !*noAPI {
		go func() {
			log.Info("status API listening on %s", *apiAddr)
			if err := http.ListenAndServe(*apiAddr, status.Router()); err != nil {
				log.Error("status API stopped: %v", err)
			}
		}()
	}

	if err := run(cfg, status, log); err != nil {
		status.SetError(err)
		log.Error("sync failed: %v", err)
		os.Exit(1)
	}
	log.Info("sync complete")
}

func run(cfg config.DriverConfig, status *diag.Server, log *logging.Logger) error {
	status.SetState("opening")
	client, err := tracksync.Open(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	status.SetState("syncing")
	result, err := client.Sync(parseBankList(*banks))
	if err != nil {
		return err
	}

	status.SetState("idle")
	log.Info("tracker info: %+v", result.Info)
	for bank, data := range result.Banks {
		log.Info("bank 0x%02x: %d bytes", bank, len(data))
	}
	return nil
}

func parseBankList(s string) []byte {
	var banks []byte
	cur := 0
	have := false
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if have {
				banks = append(banks, byte(cur))
			}
			cur, have = 0, false
			continue
		}
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		cur = cur*10 + int(c-'0')
		have = true
	}
	return banks
}
