package service

import (
	"context"

	"vending-machine/analytics"
	"vending-machine/model"
)

type ServiceInterface interface {
	Len() int
	Product(index int) (model.Product, error)
	Products() []model.Product
	Balance() int64
	Report() analytics.Report

	Select(index int) (model.Product, error)
	Dispense(ctx context.Context, index int) (Receipt, error)

	AddStock(ctx context.Context, index int, quantity int64) (model.Product, error)
	SetPrice(ctx context.Context, index int, price int64) (model.Product, error)
	RemoveMoney(ctx context.Context, amount int64) (int64, error)
}

var _ ServiceInterface = (*Service)(nil)
