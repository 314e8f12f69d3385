package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgeclaw/core/identity"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Generate and inspect a device identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := identity.NewManager()
		id, err := mgr.GenerateIdentity()
		if err != nil {
			return fmt.Errorf("generate identity: %w", err)
		}

		out, err := json.MarshalIndent(id, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal identity: %w", err)
		}
		fmt.Println(string(out))

		pub, err := mgr.ExchangePublicKey()
		if err != nil {
			return fmt.Errorf("exchange public key: %w", err)
		}
		fmt.Printf("x25519_exchange_key: %x\n", pub)

		return nil
	},
}
