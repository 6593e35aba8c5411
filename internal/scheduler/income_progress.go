// Package scheduler contém as rotinas agendadas da API
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

type IncomeProgressConfig struct {
	CronSchedule string
	Enabled      bool
}

// IncomeProgressService acompanha, por vendedor, o total vendido no mês
// frente à expectativa mensal cadastrada
type IncomeProgressService struct {
	scheduler       *gocron.Scheduler
	userRepo        repository.UserRepository
	saleRepo        repository.SaleRepository
	config          IncomeProgressConfig
	now             func() time.Time
	syncRunning     bool
	syncMutex       sync.Mutex
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastError       string
	lastReport      []*domain.IncomeProgress
}

func NewIncomeProgressService(
	userRepo repository.UserRepository,
	saleRepo repository.SaleRepository,
	cfg *config.Config,
) *IncomeProgressService {
	progressConfig := IncomeProgressConfig{
		CronSchedule: cfg.IncomeProgress.CronSchedule, // Default: 7h da manhã todos os dias
		Enabled:      cfg.IncomeProgress.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": progressConfig.CronSchedule,
		"enabled":       progressConfig.Enabled,
	}).Info("Configuração do agendador de metas mensais carregada")

	return &IncomeProgressService{
		scheduler: gocron.NewScheduler(time.Local),
		userRepo:  userRepo,
		saleRepo:  saleRepo,
		config:    progressConfig,
		now:       time.Now,
	}
}

func (s *IncomeProgressService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de metas mensais desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de metas mensais")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.UpdateIncomeProgress(ctx); err != nil {
			logrus.WithError(err).Error("Erro no cálculo das metas mensais")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar cálculo das metas mensais: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de metas mensais")
		s.scheduler.Stop()
	}()

	return nil
}

// UpdateIncomeProgress recalcula o progresso do mês corrente para todos os usuários
func (s *IncomeProgressService) UpdateIncomeProgress(ctx context.Context) ([]*domain.IncomeProgress, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Cálculo das metas mensais já está em execução")
		return nil, nil
	}
	s.syncRunning = true
	s.lastStartedAt = s.now()
	s.syncMutex.Unlock()

	report, err := s.computeProgress(ctx, s.lastStartedAt)

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	s.syncRunning = false
	s.lastCompletedAt = s.now()
	if err != nil {
		s.lastError = err.Error()
		return nil, err
	}
	s.lastError = ""
	s.lastReport = report

	return report, nil
}

func (s *IncomeProgressService) computeProgress(ctx context.Context, reference time.Time) ([]*domain.IncomeProgress, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários: %w", err)
	}

	if len(users) == 0 {
		logrus.Info("Nenhum usuário encontrado para o cálculo das metas mensais")
		return []*domain.IncomeProgress{}, nil
	}

	from := utils.StartOfMonth(reference)
	sales, err := s.saleRepo.FindSales(ctx, domain.SaleFilter{From: &from})
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar vendas do mês: %w", err)
	}

	month := utils.MonthKey(reference)
	progressByUser := make(map[string]*domain.IncomeProgress, len(users))
	report := make([]*domain.IncomeProgress, 0, len(users))
	for _, user := range users {
		progress := &domain.IncomeProgress{
			UserID:     user.ID,
			UserName:   user.Name,
			Month:      month,
			Expected:   user.ExpectedMonthlyIncome,
			Achieved:   decimal.Zero,
			Percentage: decimal.Zero,
		}
		progressByUser[user.ID] = progress
		report = append(report, progress)
	}

	for _, sale := range sales {
		progress, exists := progressByUser[sale.UserID]
		if !exists {
			continue
		}
		progress.Achieved = progress.Achieved.Add(sale.Total)
		progress.SalesCount++
	}

	for _, progress := range report {
		if progress.Expected.IsPositive() {
			progress.Percentage = progress.Achieved.Div(progress.Expected).Mul(hundred).Round(2)
		}

		logrus.WithFields(logrus.Fields{
			"user_id":    progress.UserID,
			"month":      progress.Month,
			"expected":   progress.Expected.String(),
			"achieved":   progress.Achieved.String(),
			"percentage": progress.Percentage.String(),
		}).Info("IncomeProgressService: progresso calculado")
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Percentage.GreaterThan(report[j].Percentage)
	})

	return report, nil
}

// TriggerManualSync inicia manualmente o cálculo das metas mensais
func (s *IncomeProgressService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Cálculo das metas mensais já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando cálculo manual das metas mensais")
	go func() {
		if _, err := s.UpdateIncomeProgress(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro no cálculo manual das metas mensais")
		}
	}()
}

// Status retorna o estado atual do agendador
func (s *IncomeProgressService) Status() domain.JobStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return domain.JobStatus{
		Enabled:         s.config.Enabled,
		CronSchedule:    s.config.CronSchedule,
		Running:         s.syncRunning,
		LastStartedAt:   s.lastStartedAt,
		LastCompletedAt: s.lastCompletedAt,
		LastError:       s.lastError,
	}
}

// Report retorna o último cálculo concluído
func (s *IncomeProgressService) Report() []*domain.IncomeProgress {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.lastReport
}
