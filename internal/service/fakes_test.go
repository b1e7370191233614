package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/njrtechbr/caixa-koerner/internal/dto"
	"github.com/njrtechbr/caixa-koerner/internal/model"
	"github.com/njrtechbr/caixa-koerner/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes mirroring the conditional-update semantics of the
// real implementations, so the services exercise the same concurrency guards.

// ── fakeCaixaRepo ─────────────────────────────────────────────────────────────

type fakeCaixaRepo struct {
	mu           sync.Mutex
	caixas       map[uuid.UUID]*model.CaixaDiario
	transacoes   map[uuid.UUID][]model.TransacaoFechamento
	conferencias map[uuid.UUID]*model.ConferenciaSupervisorCaixa
	formas       *fakeFormaRepo

	// Hooks executados antes da seção crítica, para intercalar uma escrita
	// concorrente de forma determinística nos testes.
	aoCriar  func()
	aoUpsert func()
}

func newFakeCaixaRepo(formas *fakeFormaRepo) *fakeCaixaRepo {
	return &fakeCaixaRepo{
		caixas:       make(map[uuid.UUID]*model.CaixaDiario),
		transacoes:   make(map[uuid.UUID][]model.TransacaoFechamento),
		conferencias: make(map[uuid.UUID]*model.ConferenciaSupervisorCaixa),
		formas:       formas,
	}
}

// anexarFormas faz o papel do Preload de FormaPagamento do repositório real.
func (r *fakeCaixaRepo) anexarFormas(ts []model.TransacaoFechamento) {
	if r.formas == nil {
		return
	}
	for i := range ts {
		if f, err := r.formas.FindByID(context.Background(), ts[i].FormaPagamentoID); err == nil {
			ts[i].FormaPagamento = *f
		}
	}
}

// Criar reproduz os índices parciais do banco: a inserção é a guarda
// autoritativa contra sessões vivas duplicadas.
func (r *fakeCaixaRepo) Criar(_ context.Context, c *model.CaixaDiario) error {
	if r.aoCriar != nil {
		r.aoCriar()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.caixas {
		if existente.AbertoPorUsuarioID != c.AbertoPorUsuarioID {
			continue
		}
		if existente.Status == model.StatusAberto {
			return repository.ErrCaixaAbertoExistente
		}
		if existente.DataMovimento.Equal(c.DataMovimento) && !model.StatusTerminal(existente.Status) {
			return repository.ErrCaixaDataOcupada
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.caixas[c.ID] = &copia
	return nil
}

// snapshot attaches transacoes and conferencia the way the real Preloads do.
func (r *fakeCaixaRepo) snapshot(id uuid.UUID) *model.CaixaDiario {
	c, ok := r.caixas[id]
	if !ok {
		return nil
	}
	copia := *c
	copia.Transacoes = append([]model.TransacaoFechamento(nil), r.transacoes[id]...)
	r.anexarFormas(copia.Transacoes)
	if conf, ok := r.conferencias[id]; ok {
		confCopia := *conf
		copia.Conferencia = &confCopia
	}
	return &copia
}

func (r *fakeCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CaixaDiario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.snapshot(id)
	if c == nil {
		return nil, errors.New("registro não encontrado")
	}
	return c, nil
}

func (r *fakeCaixaRepo) FindAbertoPorUsuario(_ context.Context, usuarioID uuid.UUID) (*model.CaixaDiario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.caixas {
		if c.AbertoPorUsuarioID == usuarioID && c.Status == model.StatusAberto {
			return r.snapshot(id), nil
		}
	}
	return nil, nil
}

func (r *fakeCaixaRepo) FindNaoTerminalPorUsuarioEData(_ context.Context, usuarioID uuid.UUID, data time.Time) (*model.CaixaDiario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.caixas {
		if c.AbertoPorUsuarioID == usuarioID && c.DataMovimento.Equal(data) && !model.StatusTerminal(c.Status) {
			return r.snapshot(id), nil
		}
	}
	return nil, nil
}

func (r *fakeCaixaRepo) UpsertTransacao(_ context.Context, t *model.TransacaoFechamento) error {
	if r.aoUpsert != nil {
		r.aoUpsert()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caixas[t.CaixaDiarioID]
	if !ok || c.Status != model.StatusAberto {
		return repository.ErrEstadoIncompativel
	}
	entradas := r.transacoes[t.CaixaDiarioID]
	for i := range entradas {
		if entradas[i].FormaPagamentoID == t.FormaPagamentoID {
			entradas[i].Valor = t.Valor
			entradas[i].TimestampSalvo = time.Now()
			*t = entradas[i]
			return nil
		}
	}
	maiorOrdem := 0
	for i := range entradas {
		if entradas[i].OrdemPreenchimento > maiorOrdem {
			maiorOrdem = entradas[i].OrdemPreenchimento
		}
	}
	t.ID = uuid.New()
	t.OrdemPreenchimento = maiorOrdem + 1
	t.TimestampSalvo = time.Now()
	r.transacoes[t.CaixaDiarioID] = append(entradas, *t)
	return nil
}

func (r *fakeCaixaRepo) ListarTransacoes(_ context.Context, caixaID uuid.UUID) ([]model.TransacaoFechamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := append([]model.TransacaoFechamento(nil), r.transacoes[caixaID]...)
	sort.Slice(ts, func(i, j int) bool { return ts[i].OrdemPreenchimento < ts[j].OrdemPreenchimento })
	r.anexarFormas(ts)
	return ts, nil
}

// Fechar congela os totais a partir das transações gravadas, sob o mesmo
// lock que serializa os upserts, como no repositório real.
func (r *fakeCaixaRepo) Fechar(_ context.Context, caixaID, fechadoPor uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caixas[caixaID]
	if !ok || c.Status != model.StatusAberto {
		return repository.ErrEstadoIncompativel
	}

	total := decimal.Zero
	w6 := decimal.Zero
	for _, t := range r.transacoes[caixaID] {
		total = total.Add(t.Valor)
		if f, err := r.formas.FindByID(context.Background(), t.FormaPagamentoID); err == nil && f.EhSistemaW6 {
			w6 = w6.Add(t.Valor)
		}
	}

	agora := time.Now()
	c.Status = model.StatusAguardandoConferencia
	c.FechadoPorUsuarioID = &fechadoPor
	c.DataFechamento = &agora
	c.ValorTotalDeclarado = &total
	c.ValorSistemaW6 = &w6
	return nil
}

func (r *fakeCaixaRepo) Conferir(_ context.Context, caixaID uuid.UUID, aprovado bool, revisadoPor uuid.UUID, motivo *string, conf *model.ConferenciaSupervisorCaixa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caixas[caixaID]
	if !ok || c.Status != model.StatusAguardandoConferencia {
		return repository.ErrEstadoIncompativel
	}
	agora := time.Now()
	if aprovado {
		c.Status = model.StatusAprovado
	} else {
		c.Status = model.StatusReprovado
	}
	c.RevisadoPorUsuarioID = &revisadoPor
	c.DataRevisao = &agora
	c.MotivoRejeicao = motivo
	if conf != nil {
		conf.ID = uuid.New()
		copia := *conf
		r.conferencias[caixaID] = &copia
	}
	return nil
}

func (r *fakeCaixaRepo) ListarPorStatus(_ context.Context, status string) ([]model.CaixaDiario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CaixaDiario
	for id, c := range r.caixas {
		if c.Status == status {
			out = append(out, *r.snapshot(id))
		}
	}
	return out, nil
}

func (r *fakeCaixaRepo) ListarPorDataEStatus(_ context.Context, data time.Time, status string) ([]model.CaixaDiario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CaixaDiario
	for id, c := range r.caixas {
		if c.DataMovimento.Equal(data) && c.Status == status {
			out = append(out, *r.snapshot(id))
		}
	}
	return out, nil
}

func (r *fakeCaixaRepo) Listar(_ context.Context, page, limit int) ([]model.CaixaDiario, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CaixaDiario
	for id := range r.caixas {
		out = append(out, *r.snapshot(id))
	}
	return out, int64(len(out)), nil
}

// ── fakeConferenciaRepo ───────────────────────────────────────────────────────

type fakeConferenciaRepo struct {
	mu     sync.Mutex
	dias   map[string]*model.ConferenciaDiaria
	caixas *fakeCaixaRepo
}

func newFakeConferenciaRepo(caixas *fakeCaixaRepo) *fakeConferenciaRepo {
	return &fakeConferenciaRepo{dias: make(map[string]*model.ConferenciaDiaria), caixas: caixas}
}

func (r *fakeConferenciaRepo) FindPorData(_ context.Context, data time.Time) (*model.ConferenciaDiaria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.dias[data.Format("2006-01-02")]; ok {
		copia := *c
		return &copia, nil
	}
	return nil, nil
}

func (r *fakeConferenciaRepo) FinalizarDia(_ context.Context, conf *model.ConferenciaDiaria, caixaIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chave := conf.DataConferencia.Format("2006-01-02")
	if _, ok := r.dias[chave]; ok {
		return repository.ErrDiaJaValidado
	}

	r.caixas.mu.Lock()
	defer r.caixas.mu.Unlock()
	for _, id := range caixaIDs {
		c, ok := r.caixas.caixas[id]
		if !ok || c.Status != model.StatusAprovado {
			return repository.ErrEstadoIncompativel
		}
	}
	for _, id := range caixaIDs {
		r.caixas.caixas[id].Status = model.StatusConferenciaFinal
	}
	conf.ID = uuid.New()
	copia := *conf
	r.dias[chave] = &copia
	return nil
}

// ── fakeUsuarioRepo ───────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	mu       sync.Mutex
	usuarios map[uuid.UUID]*model.Usuario
	codes    map[uuid.UUID]*model.UsuarioBackupCode
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{
		usuarios: make(map[uuid.UUID]*model.Usuario),
		codes:    make(map[uuid.UUID]*model.UsuarioBackupCode),
	}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copia := *u
	r.usuarios[u.ID] = &copia
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("registro não encontrado")
	}
	copia := *u
	return &copia, nil
}

func (r *fakeUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usuarios {
		if u.Email == email {
			copia := *u
			return &copia, nil
		}
	}
	return nil, errors.New("registro não encontrado")
}

func (r *fakeUsuarioRepo) FindByIDComBackupCodes(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("registro não encontrado")
	}
	copia := *u
	copia.BackupCodes = nil
	for _, bc := range r.codes {
		if bc.UsuarioID == id && !bc.Usado {
			copia.BackupCodes = append(copia.BackupCodes, *bc)
		}
	}
	return &copia, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *u
	r.usuarios[u.ID] = &copia
	return nil
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Desativar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = false
	}
	return nil
}

func (r *fakeUsuarioRepo) SalvarSegredoMFA(_ context.Context, usuarioID uuid.UUID, segredoCifrado string, codeHashes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[usuarioID]
	if !ok {
		return errors.New("registro não encontrado")
	}
	u.MfaSecret = &segredoCifrado
	for id, bc := range r.codes {
		if bc.UsuarioID == usuarioID && !bc.Usado {
			delete(r.codes, id)
		}
	}
	for _, h := range codeHashes {
		id := uuid.New()
		r.codes[id] = &model.UsuarioBackupCode{ID: id, UsuarioID: usuarioID, CodeHash: h}
	}
	return nil
}

func (r *fakeUsuarioRepo) AtivarMFA(_ context.Context, usuarioID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.usuarios[usuarioID]; ok {
		u.IsMfaEnabled = true
	}
	return nil
}

func (r *fakeUsuarioRepo) ConsumirBackupCode(_ context.Context, codeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bc, ok := r.codes[codeID]
	if !ok || bc.Usado {
		return repository.ErrCodigoJaUsado
	}
	agora := time.Now()
	bc.Usado = true
	bc.UsadoEm = &agora
	return nil
}

// ── fakeFormaRepo ─────────────────────────────────────────────────────────────

type fakeFormaRepo struct {
	mu     sync.Mutex
	formas map[uuid.UUID]*model.FormaPagamento
}

func newFakeFormaRepo() *fakeFormaRepo {
	return &fakeFormaRepo{formas: make(map[uuid.UUID]*model.FormaPagamento)}
}

func (r *fakeFormaRepo) adicionar(nome, codigo string, ordem int, dinheiro, w6 bool) *model.FormaPagamento {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := &model.FormaPagamento{
		ID: uuid.New(), Nome: nome, Codigo: codigo, Ordem: ordem,
		EhDinheiro: dinheiro, EhSistemaW6: w6, Ativo: true,
	}
	r.formas[f.ID] = f
	return f
}

func (r *fakeFormaRepo) ListAtivas(_ context.Context) ([]model.FormaPagamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.FormaPagamento
	for _, f := range r.formas {
		if f.Ativo {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordem < out[j].Ordem })
	return out, nil
}

func (r *fakeFormaRepo) ListTodas(_ context.Context) ([]model.FormaPagamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.FormaPagamento
	for _, f := range r.formas {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordem < out[j].Ordem })
	return out, nil
}

func (r *fakeFormaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FormaPagamento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.formas[id]
	if !ok {
		return nil, errors.New("registro não encontrado")
	}
	copia := *f
	return &copia, nil
}

func (r *fakeFormaRepo) Atualizar(_ context.Context, f *model.FormaPagamento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *f
	r.formas[f.ID] = &copia
	return nil
}

// ── fakeConfigRepo ────────────────────────────────────────────────────────────

type fakeConfigRepo struct {
	mu     sync.Mutex
	chaves map[string]string
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{chaves: make(map[string]string)}
}

func (r *fakeConfigRepo) GetFlag(_ context.Context, chave string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chaves[chave] == "true", nil
}

func (r *fakeConfigRepo) Set(_ context.Context, chave, valor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chaves[chave] = valor
	return nil
}

func (r *fakeConfigRepo) ListAll(_ context.Context) ([]model.ConfiguracaoSistema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ConfiguracaoSistema
	for k, v := range r.chaves {
		out = append(out, model.ConfiguracaoSistema{Chave: k, Valor: v})
	}
	return out, nil
}

// ── fakeAuditoriaRepo ─────────────────────────────────────────────────────────

type fakeAuditoriaRepo struct {
	mu        sync.Mutex
	registros []model.RegistroAuditoria
}

func (r *fakeAuditoriaRepo) Criar(_ context.Context, reg *model.RegistroAuditoria) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registros = append(r.registros, *reg)
	return nil
}

func (r *fakeAuditoriaRepo) ListarRecentes(_ context.Context, limit int) ([]model.RegistroAuditoria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.registros) {
		limit = len(r.registros)
	}
	return append([]model.RegistroAuditoria(nil), r.registros[len(r.registros)-limit:]...), nil
}

// ── fakeMovimentacaoRepo ──────────────────────────────────────────────────────

type fakeMovimentacaoRepo struct {
	mu            sync.Mutex
	movimentacoes map[uuid.UUID]*model.MovimentacaoCaixa

	// Hook executado antes do update condicional de Decidir.
	aoDecidir func()
}

func newFakeMovimentacaoRepo() *fakeMovimentacaoRepo {
	return &fakeMovimentacaoRepo{movimentacoes: make(map[uuid.UUID]*model.MovimentacaoCaixa)}
}

func (r *fakeMovimentacaoRepo) Criar(_ context.Context, m *model.MovimentacaoCaixa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	copia := *m
	r.movimentacoes[m.ID] = &copia
	return nil
}

func (r *fakeMovimentacaoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimentacaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movimentacoes[id]
	if !ok {
		return nil, errors.New("registro não encontrado")
	}
	copia := *m
	return &copia, nil
}

func (r *fakeMovimentacaoRepo) ListarPendentes(_ context.Context) ([]model.MovimentacaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ms []model.MovimentacaoCaixa
	for _, m := range r.movimentacoes {
		if m.Status == model.StatusMovimentacaoPendente {
			ms = append(ms, *m)
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].CreatedAt.Before(ms[j].CreatedAt) })
	return ms, nil
}

func (r *fakeMovimentacaoRepo) ListarPorCaixa(_ context.Context, caixaID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ms []model.MovimentacaoCaixa
	for _, m := range r.movimentacoes {
		if m.CaixaDiarioID == caixaID {
			ms = append(ms, *m)
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].CreatedAt.Before(ms[j].CreatedAt) })
	return ms, nil
}

// Decidir reproduz o update condicional no status do repositório real.
func (r *fakeMovimentacaoRepo) Decidir(_ context.Context, id uuid.UUID, aprovado bool, aprovadorID uuid.UUID, motivo *string) error {
	if r.aoDecidir != nil {
		r.aoDecidir()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movimentacoes[id]
	if !ok || m.Status != model.StatusMovimentacaoPendente {
		return repository.ErrMovimentacaoProcessada
	}
	if aprovado {
		m.Status = model.StatusMovimentacaoAprovada
	} else {
		m.Status = model.StatusMovimentacaoReprovada
	}
	m.AprovadorID = &aprovadorID
	agora := time.Now()
	m.DataDecisao = &agora
	m.MotivoRejeicao = motivo
	return nil
}

// ── stubMFA ───────────────────────────────────────────────────────────────────

// stubMFA substitui o gate de segundo fator nos testes de serviço de caixa;
// o serviço MFA real tem suíte própria.
type stubMFA struct {
	err      error
	chamadas int
}

func (s *stubMFA) Configurar(context.Context, uuid.UUID) (*dto.ConfigurarMFAResponse, error) {
	return nil, errors.New("não implementado no stub")
}

func (s *stubMFA) Ativar(context.Context, uuid.UUID, string) error {
	return errors.New("não implementado no stub")
}

func (s *stubMFA) VerificarSegundoFator(context.Context, uuid.UUID, string) error {
	s.chamadas++
	return s.err
}
