package config

// PasswordConfig содержит параметры хэширования и генерации паролей.
type PasswordConfig struct {
	BCryptCost      int `yaml:"bcrypt_cost" env:"ACCOUNT_PASSWORD_BCRYPT_COST" env-default:"10"`
	GeneratedLength int `yaml:"generated_length" env:"ACCOUNT_PASSWORD_GENERATED_LENGTH" env-default:"16"`
}
