package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadKeyFile restores a wallet from a key file containing the secret key
// as a JSON array of 64 numbers.
func LoadKeyFile(path string) (*Wallet, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	var secretKey []byte
	var numbers []int
	if err := json.Unmarshal(buf, &numbers); err != nil {
		return nil, fmt.Errorf("decoding key file: %w", err)
	}
	for _, n := range numbers {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("decoding key file: byte out of range %d", n)
		}
		secretKey = append(secretKey, byte(n))
	}

	return NewWalletFromSecretKey(NewWalletFromSecretKeyOpts{secretKey})
}

// SaveKeyFile writes the wallet's secret key to path, creating parent dirs
// if needed. Existing files are never overwritten.
func (w *Wallet) SaveKeyFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	numbers := make([]int, 0, len(w.privateKey))
	for _, b := range w.privateKey {
		numbers = append(numbers, int(b))
	}
	buf, err := json.Marshal(numbers)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
