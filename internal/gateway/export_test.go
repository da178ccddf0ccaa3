package gateway

import "github.com/ethereum/go-ethereum/accounts/abi"

// FactoryABI exposes the parsed factory ABI to external tests.
func (g *EthereumGateway) FactoryABI() abi.ABI { return g.factoryABI }

// CollectionABI exposes the parsed collection ABI to external tests.
func (g *EthereumGateway) CollectionABI() abi.ABI { return g.collectionABI }
