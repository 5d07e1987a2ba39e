package models

// All returns pointers to fresh instances of every persisted model, parents
// before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Tenant{},
		&Lease{},
		&RentPayment{},
		&Expense{},
		&PropertyValuation{},
	}
}
