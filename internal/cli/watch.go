package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	amdapi "github.com/amdapi/amdapi-go"
	"github.com/amdapi/amdapi-go/internal/cliconfig"
	"github.com/amdapi/amdapi-go/internal/queue"
	"github.com/amdapi/amdapi-go/internal/watcher"
)

var watchQuiescence time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir> [dir...]",
	Short: "Watch directories and auto-upload finished .wav recordings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		client, err := newClient()
		if err != nil {
			return err
		}

		ledger, err := cliconfig.LoadLedger()
		if err != nil {
			return fmt.Errorf("loading upload ledger: %w", err)
		}

		if err := cliconfig.EnsureDir(); err != nil {
			return err
		}
		retryQueue, err := queue.Open(cliconfig.Dir())
		if err != nil {
			return fmt.Errorf("opening retry queue: %w", err)
		}
		defer retryQueue.Close()

		for _, dir := range args {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("%s is not a watchable directory", dir)
			}
		}

		upload := func(path string, params amdapi.AnalyzeParams) error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()

			call, err := client.AnalyzeCall(context.Background(), f, params)
			if err != nil {
				return err
			}
			logger.Info().Str("path", path).Str("uuid", call.UUID).Msg("recording submitted")
			return nil
		}

		tracker := watcher.NewQuiescenceTracker(watchQuiescence, func(path string) {
			handleRecording(logger, ledger, retryQueue, upload, path)
		})
		w, err := watcher.New(args, tracker)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer w.Close()

		stop := make(chan struct{})
		defer close(stop)
		go retryQueue.ProcessLoop(stop, retryUpload(logger, ledger, upload))

		for _, dir := range args {
			logger.Info().Str("dir", dir).Msg("watching for recordings")
		}
		fmt.Println("Watching... Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		fmt.Println("\nStopping watcher...")
		return nil
	},
}

// handleRecording fires when a recording has gone quiet. Already-uploaded
// files are skipped by content hash; failed uploads go to the retry queue.
func handleRecording(logger zerolog.Logger, ledger *cliconfig.Ledger, retryQueue *queue.RetryQueue,
	upload func(string, amdapi.AnalyzeParams) error, path string) {

	hash, err := fileHash(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("reading recording")
		return
	}
	if ledger.Has(hash) {
		return
	}

	params, err := analyzeParamsForFile(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("invalid analyze parameters")
		return
	}

	if err := upload(path, params); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("upload failed, queuing for retry")
		if qerr := retryQueue.Add(path, params); qerr != nil {
			logger.Error().Err(qerr).Str("path", path).Msg("queuing retry")
		}
		return
	}

	markUploaded(logger, ledger, hash)
}

// retryUpload builds the retry-queue callback. A recording that only
// succeeds on replay still lands in the dedup ledger, so a later touch of
// the file does not analyze it again.
func retryUpload(logger zerolog.Logger, ledger *cliconfig.Ledger,
	upload func(string, amdapi.AnalyzeParams) error) func(queue.RetryItem) error {

	return func(item queue.RetryItem) error {
		if err := upload(item.Path, item.Params); err != nil {
			return err
		}
		if hash, err := fileHash(item.Path); err == nil {
			markUploaded(logger, ledger, hash)
		}
		return nil
	}
}

func markUploaded(logger zerolog.Logger, ledger *cliconfig.Ledger, hash string) {
	ledger.Add(hash)
	if err := ledger.Save(); err != nil {
		logger.Warn().Err(err).Msg("saving upload ledger")
	}
}

func fileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func init() {
	addAnalyzeFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchQuiescence, "quiescence", watcher.DefaultQuiescence,
		"how long a file must be idle before upload")
}
