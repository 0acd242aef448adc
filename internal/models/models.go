package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&ClientProfile{},
		&SpecialistProfile{},
		&Account{},
		&Skill{},
		&Certification{},
		&City{},
		&ClientAd{},
		&SpecialistAd{},
	}
}
