package gateway

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
)

const factoryABIJSON = `[
	{"type":"function","name":"createCollection","inputs":[{"name":"name","type":"string"},{"name":"symbol","type":"string"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"getUserCollections","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"address[]"}],"stateMutability":"view"},
	{"type":"event","name":"CollectionCreated","inputs":[{"name":"collection","type":"address","indexed":true},{"name":"creator","type":"address","indexed":true},{"name":"name","type":"string","indexed":false},{"name":"symbol","type":"string","indexed":false}],"anonymous":false}
]`

const collectionABIJSON = `[
	{"type":"function","name":"mint","inputs":[{"name":"metadataURI","type":"string"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"burn","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"name","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
	{"type":"function","name":"symbol","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},
	{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"nextTokenId","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"ownerOf","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"tokenURI","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"}
]`

// EthereumGateway implements Gateway against an Ethereum JSON-RPC endpoint
// and the marketplace factory contract
type EthereumGateway struct {
	client  adapter.EthClient
	clock   adapter.Clock
	chainID *big.Int

	factoryAddress common.Address
	factoryABI     abi.ABI
	collectionABI  abi.ABI

	privateKey    *ecdsa.PrivateKey
	signerAddress common.Address

	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// NewEthereumGateway creates a gateway signing with the given hex private key.
// The chain ID is read from the node once and pinned for the gateway lifetime.
func NewEthereumGateway(
	ctx context.Context,
	client adapter.EthClient,
	clock adapter.Clock,
	factoryAddress string,
	privateKeyHex string,
	confirmTimeout time.Duration,
	pollInterval time.Duration,
) (*EthereumGateway, error) {
	if !common.IsHexAddress(factoryAddress) {
		return nil, domain.NewValidationError("factoryAddress", "not a well-formed chain address")
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signer key: %w", err)
	}

	factoryABI, err := abi.JSON(strings.NewReader(factoryABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}

	collectionABI, err := abi.JSON(strings.NewReader(collectionABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection ABI: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	return &EthereumGateway{
		client:         client,
		clock:          clock,
		chainID:        chainID,
		factoryAddress: common.HexToAddress(factoryAddress),
		factoryABI:     factoryABI,
		collectionABI:  collectionABI,
		privateKey:     privateKey,
		signerAddress:  crypto.PubkeyToAddress(privateKey.PublicKey),
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
	}, nil
}

// SignerAddress returns the address transactions are signed with
func (g *EthereumGateway) SignerAddress() string {
	return g.signerAddress.String()
}

// SubmitCreateCollection deploys a new collection through the factory
func (g *EthereumGateway) SubmitCreateCollection(ctx context.Context, name, symbol string) (string, error) {
	calldata, err := g.factoryABI.Pack("createCollection", name, symbol)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to encode createCollection call: %w", err)}
	}

	return g.submit(ctx, g.factoryAddress, calldata)
}

// SubmitMint mints the next token of a collection with the given metadata URI
func (g *EthereumGateway) SubmitMint(ctx context.Context, collection domain.CollectionID, metadataURI string) (string, error) {
	if !collection.Valid() {
		return "", domain.NewValidationError("collection", "not a well-formed chain address")
	}

	calldata, err := g.collectionABI.Pack("mint", metadataURI)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to encode mint call: %w", err)}
	}

	return g.submit(ctx, common.HexToAddress(collection.String()), calldata)
}

// SubmitBurn burns a token of a collection
func (g *EthereumGateway) SubmitBurn(ctx context.Context, collection domain.CollectionID, tokenNumber string) (string, error) {
	token := domain.NewTokenID(collection, tokenNumber)
	if !token.Valid() {
		return "", domain.NewValidationError("token", "not a well-formed token identifier")
	}

	number, ok := new(big.Int).SetString(tokenNumber, 10)
	if !ok {
		return "", domain.NewValidationError("tokenNumber", "must be a decimal token number")
	}

	calldata, err := g.collectionABI.Pack("burn", number)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to encode burn call: %w", err)}
	}

	return g.submit(ctx, common.HexToAddress(collection.String()), calldata)
}

// submit builds, signs and sends a transaction to the given contract and
// returns its hash without waiting for inclusion
func (g *EthereumGateway) submit(ctx context.Context, to common.Address, calldata []byte) (string, error) {
	nonce, err := g.client.PendingNonceAt(ctx, g.signerAddress)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to fetch nonce: %w", err)}
	}

	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to fetch gas price: %w", err)}
	}

	gasLimit, err := g.client.EstimateGas(ctx, ethereum.CallMsg{
		From: g.signerAddress,
		To:   &to,
		Data: calldata,
	})
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to estimate gas: %w", err)}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     calldata,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(g.chainID), g.privateKey)
	if err != nil {
		return "", &domain.SubmissionError{Err: fmt.Errorf("failed to sign transaction: %w", err)}
	}

	if err := g.client.SendTransaction(ctx, signedTx); err != nil {
		return "", &domain.SubmissionError{Err: err}
	}

	txHash := signedTx.Hash().String()
	logger.InfoCtx(ctx, "transaction submitted",
		zap.String("txHash", txHash),
		zap.String("to", to.String()),
		zap.Uint64("nonce", nonce))

	return txHash, nil
}

// AwaitConfirmation polls for the transaction receipt until it is mined or
// the confirmation window elapses
func (g *EthereumGateway) AwaitConfirmation(ctx context.Context, txHash string) (*types.Receipt, error) {
	hash := common.HexToHash(txHash)
	deadline := g.clock.Now().Add(g.confirmTimeout)

	for {
		receipt, err := g.client.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, &domain.ConfirmationError{TxHash: txHash, Err: errors.New("transaction reverted")}
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, &domain.ConfirmationError{TxHash: txHash, Err: err}
		}

		if g.clock.Now().After(deadline) {
			return nil, &domain.ConfirmationError{TxHash: txHash, Err: fmt.Errorf("not mined within %s", g.confirmTimeout)}
		}

		select {
		case <-ctx.Done():
			return nil, &domain.ConfirmationError{TxHash: txHash, Err: ctx.Err()}
		case <-g.clock.After(g.pollInterval):
		}
	}
}

// ResolveCreatedCollection extracts the deployed collection address from the
// creation receipt's CollectionCreated event
func (g *EthereumGateway) ResolveCreatedCollection(receipt *types.Receipt) (domain.CollectionID, error) {
	eventID := g.factoryABI.Events["CollectionCreated"].ID

	for _, log := range receipt.Logs {
		if log.Address != g.factoryAddress {
			continue
		}
		if len(log.Topics) < 2 || log.Topics[0] != eventID {
			continue
		}

		collection := common.BytesToAddress(log.Topics[1].Bytes())
		return domain.CollectionID(collection.String()), nil
	}

	return "", domain.ErrEntityNotFound
}

// CollectionsByCreator lists the collections deployed by a wallet
func (g *EthereumGateway) CollectionsByCreator(ctx context.Context, creator string) ([]domain.CollectionID, error) {
	if !common.IsHexAddress(creator) {
		return nil, domain.NewValidationError("creator", "not a well-formed chain address")
	}

	var addresses []common.Address
	if err := g.callFactory(ctx, &addresses, "getUserCollections", common.HexToAddress(creator)); err != nil {
		return nil, err
	}

	collections := make([]domain.CollectionID, 0, len(addresses))
	for _, address := range addresses {
		collections = append(collections, domain.CollectionID(address.String()))
	}

	return collections, nil
}

// CollectionState reads the on-chain state of a collection
func (g *EthereumGateway) CollectionState(ctx context.Context, collection domain.CollectionID) (*CollectionState, error) {
	if !collection.Valid() {
		return nil, domain.NewValidationError("collection", "not a well-formed chain address")
	}

	contract := common.HexToAddress(collection.String())

	var name string
	if err := g.callCollection(ctx, contract, &name, "name"); err != nil {
		return nil, err
	}

	var symbol string
	if err := g.callCollection(ctx, contract, &symbol, "symbol"); err != nil {
		return nil, err
	}

	var owner common.Address
	if err := g.callCollection(ctx, contract, &owner, "owner"); err != nil {
		return nil, err
	}

	var nextTokenID *big.Int
	if err := g.callCollection(ctx, contract, &nextTokenID, "nextTokenId"); err != nil {
		return nil, err
	}

	return &CollectionState{
		Name:        name,
		Symbol:      symbol,
		Owner:       owner.String(),
		NextTokenID: nextTokenID.String(),
	}, nil
}

// TokenState reads the on-chain state of a token. A token that was never
// minted or was burned resolves to ErrEntityNotFound.
func (g *EthereumGateway) TokenState(ctx context.Context, token domain.TokenID) (*TokenState, error) {
	if !token.Valid() {
		return nil, domain.NewValidationError("token", "not a well-formed token identifier")
	}

	contract := common.HexToAddress(token.Collection.String())
	number, _ := new(big.Int).SetString(token.Number, 10)

	var owner common.Address
	if err := g.callCollection(ctx, contract, &owner, "ownerOf", number); err != nil {
		// ownerOf reverts for nonexistent tokens
		return nil, domain.ErrEntityNotFound
	}

	var metadataURI string
	if err := g.callCollection(ctx, contract, &metadataURI, "tokenURI", number); err != nil {
		return nil, err
	}

	return &TokenState{
		Owner:       owner.String(),
		MetadataURI: metadataURI,
	}, nil
}

func (g *EthereumGateway) callFactory(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return g.call(ctx, g.factoryABI, g.factoryAddress, result, method, args...)
}

func (g *EthereumGateway) callCollection(ctx context.Context, contract common.Address, result interface{}, method string, args ...interface{}) error {
	return g.call(ctx, g.collectionABI, contract, result, method, args...)
}

func (g *EthereumGateway) call(ctx context.Context, contractABI abi.ABI, contract common.Address, result interface{}, method string, args ...interface{}) error {
	calldata, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to encode %s call: %w", method, err)
	}

	raw, err := g.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: calldata,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := contractABI.UnpackIntoInterface(result, method, raw); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}

	return nil
}
