package config

import "github.com/bsv-blockchain/go-sdk/chainhash"

// Well-known genesis block hashes, canonical hex form.
const (
	// MainnetGenesisHash is the hash of the mainnet genesis block.
	MainnetGenesisHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
	// TestnetGenesisHash is the hash of the testnet genesis block.
	TestnetGenesisHash = "000000000933ea01ad0ee984209779baaec3ced90fa3f408719526f8d77f4943"
	// RegtestGenesisHash is the hash of the regtest genesis block.
	RegtestGenesisHash = "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206"
)

// ResolveGenesisHash returns the genesis block hash for the configured network, or
// the configured override if one is set. The genesis block is the one block
// in an archive with no parent, so link checking needs to know it.
func (c Config) ResolveGenesisHash() (*chainhash.Hash, error) {
	s := c.GenesisHash
	if s == "" {
		switch c.Network {
		case "testnet":
			s = TestnetGenesisHash
		case "regtest":
			s = RegtestGenesisHash
		default:
			s = MainnetGenesisHash
		}
	}
	h, err := chainhash.NewHashFromHex(s)
	if err != nil {
		return nil, ErrInvalidGenesisHash
	}
	return h, nil
}
