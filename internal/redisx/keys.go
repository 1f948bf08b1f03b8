package redisx

import "time"

const (
	// Catalog listing cache: catalog:products -> JSON array
	KeyProductList = "catalog:products"

	// Order receipt cache: order:receipt:{order_id} -> JSON receipt
	KeyOrderReceipt = "order:receipt:%d"
)

var (
	// The product list changes on every create, so keep the TTL short;
	// creates also delete the key outright.
	TTLProductList = 30 * time.Second

	// Receipts are immutable; the TTL just bounds memory.
	TTLOrderReceipt = 10 * time.Minute
)
