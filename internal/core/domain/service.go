package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ServiceType identifies the service module a transaction belongs to.
type ServiceType string

const (
	ServiceMomo          ServiceType = "momo"
	ServiceAgencyBanking ServiceType = "agency_banking"
	ServiceEZwich        ServiceType = "ezwich"
	ServicePower         ServiceType = "power"
	ServiceJumia         ServiceType = "jumia"
	// ServiceFloat is the source module of float recharges and exchanges.
	ServiceFloat ServiceType = "float"
)

// TransactionModules lists the service modules that own transaction tables.
var TransactionModules = []ServiceType{ServiceMomo, ServiceAgencyBanking, ServiceEZwich, ServicePower, ServiceJumia}

var serviceAliases = map[string]ServiceType{
	"momo":           ServiceMomo,
	"mobile_money":   ServiceMomo,
	"agency_banking": ServiceAgencyBanking,
	"agency-banking": ServiceAgencyBanking,
	"agencybanking":  ServiceAgencyBanking,
	"ezwich":         ServiceEZwich,
	"e-zwich":        ServiceEZwich,
	"e_zwich":        ServiceEZwich,
	"power":          ServicePower,
	"jumia":          ServiceJumia,
}

// ParseServiceType resolves a boundary module name into a transaction module.
// ServiceFloat is not a transaction module and is rejected.
func ParseServiceType(s string) (ServiceType, error) {
	st, ok := serviceAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown service module %q", s)
	}
	return st, nil
}

// FloatAccountType returns the float account type a service posts against.
func (s ServiceType) FloatAccountType() FloatAccountType {
	switch s {
	case ServiceMomo:
		return FloatMomo
	case ServiceAgencyBanking:
		return FloatAgencyBanking
	case ServiceEZwich:
		return FloatEZwich
	case ServicePower:
		return FloatPower
	case ServiceJumia:
		return FloatJumia
	}
	return FloatCashInTill
}

// TransactionType is the business type of a transaction within a service.
type TransactionType string

const (
	TxnDeposit           TransactionType = "deposit"
	TxnWithdrawal        TransactionType = "withdrawal"
	TxnCashIn            TransactionType = "cash_in"
	TxnCashOut           TransactionType = "cash_out"
	TxnTransfer          TransactionType = "transfer"
	TxnInterbankTransfer TransactionType = "interbank_transfer"
	TxnCardIssuance      TransactionType = "card_issuance"
	TxnSale              TransactionType = "sale"
	TxnPODCollection     TransactionType = "pod_collection"
	TxnRecharge          TransactionType = "recharge"
	TxnExchange          TransactionType = "exchange"
)

// FloatDirection says whether a transaction adds to or draws from its float account.
type FloatDirection int

const (
	// Inflow credits the float account with amount plus fee received.
	Inflow FloatDirection = iota + 1
	// Outflow debits the float account by the principal amount.
	Outflow
)

type policyKey struct {
	service ServiceType
	txnType TransactionType
}

var floatPolicy = map[policyKey]FloatDirection{
	{ServiceMomo, TxnDeposit}:                    Inflow,
	{ServiceMomo, TxnCashIn}:                     Inflow,
	{ServiceMomo, TxnTransfer}:                   Inflow,
	{ServiceMomo, TxnWithdrawal}:                 Outflow,
	{ServiceMomo, TxnCashOut}:                    Outflow,
	{ServiceAgencyBanking, TxnDeposit}:           Inflow,
	{ServiceAgencyBanking, TxnInterbankTransfer}: Inflow,
	{ServiceAgencyBanking, TxnWithdrawal}:        Outflow,
	{ServiceEZwich, TxnDeposit}:                  Inflow,
	{ServiceEZwich, TxnCardIssuance}:             Inflow,
	{ServiceEZwich, TxnWithdrawal}:               Outflow,
	{ServicePower, TxnSale}:                      Outflow,
	{ServiceJumia, TxnPODCollection}:             Inflow,
}

// DirectionFor returns the float direction of a (service, transaction type) pair.
func DirectionFor(service ServiceType, txnType TransactionType) (FloatDirection, bool) {
	d, ok := floatPolicy[policyKey{service, txnType}]
	return d, ok
}

// FloatDelta is the signed float balance change caused by amount and fee.
func (d FloatDirection) FloatDelta(amount, fee decimal.Decimal) decimal.Decimal {
	if d == Outflow {
		return amount.Neg()
	}
	return amount.Add(fee)
}

// InitialStatus is the status a freshly created transaction takes.
func (s ServiceType) InitialStatus() TransactionStatus {
	switch s {
	case ServicePower, ServiceJumia:
		return StatusPending
	}
	return StatusCompleted
}

// AppliesEffectsOnCreate reports whether float and GL effects are applied at creation.
func (s ServiceType) AppliesEffectsOnCreate() bool {
	return s.InitialStatus() == StatusCompleted
}

// SupportsDisburse reports whether completed transactions of s settle a cash leg.
func (s ServiceType) SupportsDisburse() bool {
	return s == ServiceAgencyBanking || s == ServiceEZwich
}
