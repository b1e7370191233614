package service

import (
	"context"

	"github.com/njrtechbr/caixa-koerner/internal/apierror"
	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/mfa"
	"github.com/njrtechbr/caixa-koerner/internal/repository"
	"github.com/njrtechbr/caixa-koerner/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type MFAService interface {
	// Configurar enrolls a fresh secret and backup codes for the account.
	// MFA stays disabled until the enrollment is confirmed via Ativar.
	Configurar(ctx context.Context, usuarioID uuid.UUID) (*dto.ConfigurarMFAResponse, error)
	// Ativar confirms the enrollment with a valid TOTP code.
	Ativar(ctx context.Context, usuarioID uuid.UUID, codigo string) error
	// VerificarSegundoFator is the step-up gate required before every
	// state-mutating financial action. It accepts a 6-digit TOTP code or a
	// single-use recovery code (consumed atomically on success).
	VerificarSegundoFator(ctx context.Context, usuarioID uuid.UUID, codigo string) error
}

type mfaService struct {
	usuarios   repository.UsuarioRepository
	cipher     *mfa.Cipher
	emissor    string
	dispatcher *worker.Dispatcher
}

func NewMFAService(usuarios repository.UsuarioRepository, cipher *mfa.Cipher, emissor string, dispatcher *worker.Dispatcher) MFAService {
	return &mfaService{usuarios: usuarios, cipher: cipher, emissor: emissor, dispatcher: dispatcher}
}

// ── Configurar ────────────────────────────────────────────────────────────────

func (s *mfaService) Configurar(ctx context.Context, usuarioID uuid.UUID) (*dto.ConfigurarMFAResponse, error) {
	usuario, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NaoEncontrado("usuario_nao_encontrado", "Usuário não encontrado")
	}
	if usuario.IsMfaEnabled {
		return nil, apierror.Conflito("mfa_ja_configurado", "MFA já está configurado e ativo para este usuário")
	}

	inscricao, err := mfa.GerarInscricao(s.emissor, usuario.Email)
	if err != nil {
		return nil, err
	}
	segredoCifrado, err := s.cipher.Encrypt(inscricao.Segredo)
	if err != nil {
		return nil, err
	}

	codigos, err := mfa.GerarBackupCodes(mfa.QuantidadeBackupCodes)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, 0, len(codigos))
	for _, c := range codigos {
		h, err := mfa.HashBackupCode(c)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}

	if err := s.usuarios.SalvarSegredoMFA(ctx, usuario.ID, segredoCifrado, hashes); err != nil {
		return nil, err
	}

	s.dispatcher.Registrar(ctx, usuario.ID, "mfa_configurado", "Segredo MFA gerado, aguardando confirmação")

	// Os códigos em texto claro são exibidos exatamente uma vez.
	return &dto.ConfigurarMFAResponse{
		URLProvisionamento: inscricao.URLProvisionamento,
		BackupCodes:        codigos,
		Email:              usuario.Email,
	}, nil
}

// ── Ativar ────────────────────────────────────────────────────────────────────

func (s *mfaService) Ativar(ctx context.Context, usuarioID uuid.UUID, codigo string) error {
	usuario, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return apierror.NaoEncontrado("usuario_nao_encontrado", "Usuário não encontrado")
	}
	if usuario.IsMfaEnabled {
		return apierror.Conflito("mfa_ja_configurado", "MFA já está ativo para este usuário")
	}
	if usuario.MfaSecret == nil || *usuario.MfaSecret == "" {
		return apierror.Validacao("mfa_nao_iniciado", "MFA não foi configurado. Gere o segredo primeiro.")
	}

	segredo, err := s.cipher.Decrypt(*usuario.MfaSecret)
	if err != nil {
		log.Error().Err(err).Str("usuario_id", usuario.ID.String()).Msg("segredo MFA ilegível")
		return apierror.MFANaoConfigurado()
	}
	if !mfa.VerificarCodigo(segredo, codigo) {
		return apierror.MFAInvalido()
	}

	if err := s.usuarios.AtivarMFA(ctx, usuario.ID); err != nil {
		return err
	}
	s.dispatcher.Registrar(ctx, usuario.ID, "mfa_ativado", "MFA confirmado e ativado")
	return nil
}

// ── VerificarSegundoFator ─────────────────────────────────────────────────────

// Um usuário sem MFA configurado nunca passa pelo gate: a ausência de segredo
// é erro de configuração, não isenção.
func (s *mfaService) VerificarSegundoFator(ctx context.Context, usuarioID uuid.UUID, codigo string) error {
	usuario, err := s.usuarios.FindByIDComBackupCodes(ctx, usuarioID)
	if err != nil {
		return apierror.NaoEncontrado("usuario_nao_encontrado", "Usuário não encontrado")
	}
	if !usuario.IsMfaEnabled || usuario.MfaSecret == nil || *usuario.MfaSecret == "" {
		log.Error().Str("usuario_id", usuario.ID.String()).
			Msg("operação financeira exige MFA mas a conta não possui segredo utilizável")
		return apierror.MFANaoConfigurado()
	}

	switch {
	case mfa.EhCodigoTOTP(codigo):
		segredo, err := s.cipher.Decrypt(*usuario.MfaSecret)
		if err != nil {
			log.Error().Err(err).Str("usuario_id", usuario.ID.String()).Msg("segredo MFA ilegível")
			return apierror.MFANaoConfigurado()
		}
		if !mfa.VerificarCodigo(segredo, codigo) {
			return apierror.MFAInvalido()
		}
		return nil

	case mfa.EhCodigoBackup(codigo):
		hashes := make([]string, len(usuario.BackupCodes))
		for i, bc := range usuario.BackupCodes {
			hashes[i] = bc.CodeHash
		}
		idx := mfa.VerificarBackupCode(codigo, hashes)
		if idx < 0 {
			return apierror.MFAInvalido()
		}
		// Verify-then-consume: a consumação condicional garante uso único
		// mesmo sob requisições concorrentes com o mesmo código.
		if err := s.usuarios.ConsumirBackupCode(ctx, usuario.BackupCodes[idx].ID); err != nil {
			if err == repository.ErrCodigoJaUsado {
				return apierror.MFAInvalido()
			}
			return err
		}
		s.dispatcher.Registrar(ctx, usuario.ID, "backup_code_usado", "Código de recuperação consumido")
		return nil

	default:
		// Entrada malformada é rejeição, nunca exceção.
		return apierror.MFAInvalido()
	}
}
