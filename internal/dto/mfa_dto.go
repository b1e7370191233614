package dto

type ConfigurarMFAResponse struct {
	// URLProvisionamento é o URI otpauth:// para o aplicativo autenticador.
	URLProvisionamento string   `json:"url_provisionamento"`
	BackupCodes        []string `json:"backup_codes"`
	Email              string   `json:"email"`
}

type AtivarMFARequest struct {
	CodigoMFA string `json:"codigo_mfa" validate:"required,len=6,numeric"`
}
