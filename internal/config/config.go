// Package config builds the GlobalConfig: the ruleset every party of the
// marketplace agrees on, selected once per process by network.
//
// A GlobalConfig is a value. It is built at startup (Preset, FromEnv,
// LoadFile) and passed explicitly to whatever needs it; there is no package
// level instance.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/roach88/paragon/internal/contract"
)

// Environment variables read by FromEnv.
const (
	EnvNetwork     = "PARAGON_NETWORK"
	EnvPlatformKey = "PARAGON_PLATFORM_KEY"
)

// KeyDerivationProtocol identifies the wallet protocol used to derive
// contract keys. It is carried for the backend, never interpreted here.
type KeyDerivationProtocol struct {
	SecurityLevel int    `json:"securityLevel" yaml:"securityLevel"`
	ProtocolID    string `json:"protocolID" yaml:"protocolID"`
}

// GlobalConfig is the policy new contracts are created with, plus the
// overlay coordinates of the network.
type GlobalConfig struct {
	MinAllowableBid               int64 `json:"minAllowableBid" yaml:"minAllowableBid"`
	EscrowServiceFeeBasisPoints   int64 `json:"escrowServiceFeeBasisPoints" yaml:"escrowServiceFeeBasisPoints"`
	PlatformAuthorizationRequired bool  `json:"platformAuthorizationRequired" yaml:"platformAuthorizationRequired"`
	EscrowMustBeFullyDecisive     bool  `json:"escrowMustBeFullyDecisive" yaml:"escrowMustBeFullyDecisive"`
	BountySolversNeedApproval     bool  `json:"bountySolversNeedApproval" yaml:"bountySolversNeedApproval"`

	FurnisherBondingMode contract.BondingMode `json:"furnisherBondingMode" yaml:"furnisherBondingMode"`
	RequiredBondAmount   int64                `json:"requiredBondAmount" yaml:"requiredBondAmount"`

	MaxWorkStartDelay    int64                 `json:"maxWorkStartDelay" yaml:"maxWorkStartDelay"`
	MaxWorkApprovalDelay int64                 `json:"maxWorkApprovalDelay" yaml:"maxWorkApprovalDelay"`
	DelayUnit            contract.DelayUnit    `json:"delayUnit" yaml:"delayUnit"`
	ApprovalMode         contract.ApprovalMode `json:"approvalMode" yaml:"approvalMode"`
	ContractType         contract.ContractType `json:"contractType" yaml:"contractType"`

	ContractSurvivesAdverseFurnisherDisputeResolution bool `json:"contractSurvivesAdverseFurnisherDisputeResolution" yaml:"contractSurvivesAdverseFurnisherDisputeResolution"`

	BountyIncreaseAllowanceMode contract.AllowanceMode `json:"bountyIncreaseAllowanceMode" yaml:"bountyIncreaseAllowanceMode"`
	BountyIncreaseCutoffPoint   contract.CutoffPoint   `json:"bountyIncreaseCutoffPoint" yaml:"bountyIncreaseCutoffPoint"`

	PlatformKey           string                `json:"platformKey" yaml:"platformKey"`
	Topic                 string                `json:"topic" yaml:"topic"`
	Service               string                `json:"service" yaml:"service"`
	KeyDerivationProtocol KeyDerivationProtocol `json:"keyDerivationProtocol" yaml:"keyDerivationProtocol"`
	NetworkPreset         contract.Network      `json:"networkPreset" yaml:"networkPreset"`
}

// Preset returns the built-in configuration for network. All networks share
// the same policy and overlay names today; only NetworkPreset differs.
func Preset(network contract.Network) (GlobalConfig, error) {
	switch network {
	case contract.NetworkMainnet, contract.NetworkTestnet, contract.NetworkLocal:
	default:
		return GlobalConfig{}, fmt.Errorf("no preset for network %q", network)
	}

	return GlobalConfig{
		MinAllowableBid:               1000,
		EscrowServiceFeeBasisPoints:   250,
		PlatformAuthorizationRequired: true,
		EscrowMustBeFullyDecisive:     true,
		BountySolversNeedApproval:     true,
		FurnisherBondingMode:          contract.BondingOptional,
		RequiredBondAmount:            0,
		MaxWorkStartDelay:             7 * 24 * 60 * 60,
		MaxWorkApprovalDelay:          3 * 24 * 60 * 60,
		DelayUnit:                     contract.DelaySeconds,
		ApprovalMode:                  contract.ApprovalSeekerOrPlatform,
		ContractType:                  contract.TypeBid,
		BountyIncreaseAllowanceMode:   contract.AllowanceBySeekerOrPlatform,
		BountyIncreaseCutoffPoint:     contract.CutoffBidAcceptance,
		Topic:                         "tm_escrow",
		Service:                       "ls_escrow",
		KeyDerivationProtocol:         KeyDerivationProtocol{SecurityLevel: 2, ProtocolID: "paragon escrow"},
		NetworkPreset:                 network,
	}, nil
}

// FromEnv selects the preset named by PARAGON_NETWORK (default local) and
// applies PARAGON_PLATFORM_KEY.
func FromEnv() (GlobalConfig, error) {
	name := strings.TrimSpace(os.Getenv(EnvNetwork))
	if name == "" {
		name = string(contract.NetworkLocal)
	}
	network, err := contract.ParseNetwork(name)
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("%s: %w", EnvNetwork, err)
	}

	cfg, err := Preset(network)
	if err != nil {
		return GlobalConfig{}, err
	}
	cfg.PlatformKey = strings.TrimSpace(os.Getenv(EnvPlatformKey))
	if err := cfg.Validate(); err != nil {
		return GlobalConfig{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enum membership. An empty PlatformKey is
// allowed; read-only tools do not need one.
func (c GlobalConfig) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.MinAllowableBid < 0 {
		add("minAllowableBid must be non-negative")
	}
	if c.EscrowServiceFeeBasisPoints < 0 || c.EscrowServiceFeeBasisPoints > 10_000 {
		add("escrowServiceFeeBasisPoints must be within 0..10000")
	}
	if c.RequiredBondAmount < 0 {
		add("requiredBondAmount must be non-negative")
	}
	if c.MaxWorkStartDelay < 0 || c.MaxWorkApprovalDelay < 0 {
		add("work delays must be non-negative")
	}
	if _, err := contract.ParseBondingMode(string(c.FurnisherBondingMode)); err != nil {
		add("%v", err)
	}
	if _, err := contract.ParseDelayUnit(string(c.DelayUnit)); err != nil {
		add("%v", err)
	}
	if _, err := contract.ParseApprovalMode(string(c.ApprovalMode)); err != nil {
		add("%v", err)
	}
	if _, err := contract.ParseContractType(string(c.ContractType)); err != nil {
		add("%v", err)
	}
	if _, err := contract.ParseAllowanceMode(string(c.BountyIncreaseAllowanceMode)); err != nil {
		add("%v", err)
	}
	if _, err := contract.ParseCutoffPoint(string(c.BountyIncreaseCutoffPoint)); err != nil {
		add("%v", err)
	}
	if _, err := contract.ParseNetwork(string(c.NetworkPreset)); err != nil {
		add("%v", err)
	}
	if c.PlatformKey != "" {
		if v := contract.ValidatePublicKey(c.PlatformKey); !v.Valid {
			add("platformKey: %s", v.Errors[0])
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// NewRecord returns the record of a freshly created contract under this
// configuration: status initial, every bid slot a placeholder, and the
// policy fields copied from c.
func (c GlobalConfig) NewRecord(seekerKey, workDescription string, deadline int64) contract.Record {
	return contract.Record{
		MinAllowableBid:               c.MinAllowableBid,
		EscrowServiceFeeBasisPoints:   c.EscrowServiceFeeBasisPoints,
		PlatformAuthorizationRequired: c.PlatformAuthorizationRequired,
		EscrowMustBeFullyDecisive:     c.EscrowMustBeFullyDecisive,
		BountySolversNeedApproval:     c.BountySolversNeedApproval,
		FurnisherBondingMode:          c.FurnisherBondingMode,
		RequiredBondAmount:            c.RequiredBondAmount,
		MaxWorkStartDelay:             c.MaxWorkStartDelay,
		MaxWorkApprovalDelay:          c.MaxWorkApprovalDelay,
		DelayUnit:                     c.DelayUnit,
		WorkCompletionDeadline:        deadline,
		ApprovalMode:                  c.ApprovalMode,
		ContractType:                  c.ContractType,

		ContractSurvivesAdverseFurnisherDisputeResolution: c.ContractSurvivesAdverseFurnisherDisputeResolution,

		BountyIncreaseAllowanceMode: c.BountyIncreaseAllowanceMode,
		BountyIncreaseCutoffPoint:   c.BountyIncreaseCutoffPoint,
		Bids:                        make([]contract.Bid, contract.BidSlots),
		SeekerKey:                   seekerKey,
		PlatformKey:                 c.PlatformKey,
		BidAcceptedBy:               contract.NotYetAccepted,
		Status:                      contract.StatusInitial,
		WorkDescription:             workDescription,
	}
}
