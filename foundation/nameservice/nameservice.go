// Package nameservice reads the names folder and creates a name service
// lookup for well known addresses, like the pool contract itself.
package nameservice

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	addresses map[common.Address]string
}

// New constructs a name service from the specified folder. Each .addr file
// holds one hex address and the file name is the display name.
func New(root string) (*NameService, error) {
	ns := NameService{
		addresses: make(map[common.Address]string),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".addr" {
			return nil
		}

		data, err := os.ReadFile(fileName)
		if err != nil {
			return err
		}

		hex := strings.TrimSpace(string(data))
		if !common.IsHexAddress(hex) {
			return fmt.Errorf("file %q does not hold a hex address", fileName)
		}

		ns.addresses[common.HexToAddress(hex)] = strings.TrimSuffix(path.Base(fileName), ".addr")

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address.
func (ns *NameService) Lookup(address common.Address) string {
	name, exists := ns.addresses[address]
	if !exists {
		return address.Hex()
	}
	return name
}

// Copy returns a copy of the map of names and addresses.
func (ns *NameService) Copy() map[common.Address]string {
	cpy := make(map[common.Address]string, len(ns.addresses))
	for address, name := range ns.addresses {
		cpy[address] = name
	}
	return cpy
}
