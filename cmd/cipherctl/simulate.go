package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"cipher-ledger/go-client/internal/client"
	"cipher-ledger/go-client/internal/identity"
	"cipher-ledger/go-client/internal/ledger"
	"cipher-ledger/go-client/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type simulationView struct {
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	Profile   string            `json:"recipient_profile"`
	Note      string            `json:"note"`
	NoteText  string            `json:"note_text"`
	Message   string            `json:"message"`
	Inbox     int               `json:"inbox"`
	Delivered string            `json:"delivered"`
	Counters  map[string]uint64 `json:"counters"`
}

func newSimulateCmd(a *app) *cobra.Command {
	var noteText, messageText string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run register, note and message flows against an in-memory program",
		Long: `simulate creates two throwaway wallets and drives the record client against an
in-process ledger that executes instructions like the deployed program. It uses
the configured program id, discriminators and read rate limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(cmd.Context(), noteText, messageText)
		},
	}
	cmd.Flags().StringVar(&noteText, "note", "remember the milk", "Note plaintext")
	cmd.Flags().StringVar(&messageText, "message", "hello from the simulator", "Message plaintext")
	return cmd
}

func (a *app) simulate(ctx context.Context, noteText, messageText string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sender, err := randomWallet()
	if err != nil {
		return err
	}
	recipient, err := randomWallet()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}
	mem := ledger.NewMemoryLedger()
	c, err := client.New(client.Config{
		ProgramID: a.cfg.ProgramID,
		Codec:     a.codec,
		Reader:    ledger.NewThrottledReader(mem, a.cfg.ReadLimiter()),
		Submitter: ledger.NewProgramEmulator(mem, a.codec, a.deriver),
		Logger:    a.logger,
		Metrics:   m,
	})
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	view := simulationView{Sender: sender.Address().String(), Recipient: recipient.Address().String()}
	profile, err := c.Register(ctx, recipient)
	if err != nil {
		return err
	}
	view.Profile = profile.String()

	note, err := c.CreateNote(ctx, sender, []byte(noteText), now)
	if err != nil {
		return err
	}
	view.Note = note.String()
	plain, _, err := c.ReadNote(ctx, sender, note)
	if err != nil {
		return err
	}
	view.NoteText = string(plain)

	message, err := c.SendMessage(ctx, sender, recipient.Address(), []byte(messageText), now)
	if err != nil {
		return err
	}
	view.Message = message.String()
	inbox, err := c.FetchMessagesByRecipient(ctx, recipient.Address())
	if err != nil {
		return err
	}
	view.Inbox = len(inbox)
	_, delivered, _, err := c.ReadMessage(ctx, recipient, message)
	if err != nil {
		return err
	}
	view.Delivered = string(delivered)

	view.Counters, err = gatherCounters(registry)
	if err != nil {
		return err
	}
	return a.printJSON(view)
}

func randomWallet() (identity.Wallet, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return identity.Wallet{}, err
	}
	return identity.DeriveWallet(seed)
}

// gatherCounters flattens counter families into name{label=value,...} keys.
func gatherCounters(g prometheus.Gatherer) (map[string]uint64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			labels := ""
			for _, pair := range metric.GetLabel() {
				if labels != "" {
					labels += ","
				}
				labels += fmt.Sprintf("%s=%s", pair.GetName(), pair.GetValue())
			}
			if labels != "" {
				key += "{" + labels + "}"
			}
			out[key] = uint64(metric.GetCounter().GetValue())
		}
	}
	return out, nil
}
