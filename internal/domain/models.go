package domain

// All returns every model this service migrates, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Investment{},
		&InvestmentRequest{},
		&Holding{},
	}
}
