package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/log"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

// CronJobTypeAll dispara todas as jobs registradas
const CronJobTypeAll = "all"

// CronJob é uma rotina agendada que também pode ser executada manualmente
type CronJob interface {
	TriggerManualSync()
	Status() domain.JobStatus
}

// CronReporter é implementada pelas jobs que guardam o resultado da última execução
type CronReporter interface {
	Report() []*domain.IncomeProgress
}

type cronReportResponse struct {
	Type   string                   `json:"type"`
	Status domain.JobStatus         `json:"status"`
	Report []*domain.IncomeProgress `json:"report"`
}

// CronJobServices indexa as jobs pelo tipo usado na URL
type CronJobServices map[string]CronJob

func (s CronJobServices) types() []string {
	types := make([]string, 0, len(s))
	for cronType := range s {
		types = append(types, cronType)
	}
	sort.Strings(types)
	return types
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			logger = logger.WithField("user_id", claims.UserID)
		}
		logger.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		if cronType == CronJobTypeAll {
			for _, job := range services {
				job.TriggerManualSync()
			}
		} else {
			job, ok := services[cronType]
			if !ok || job == nil {
				accepted := append(services.types(), CronJobTypeAll)
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
					"Tipo de cron job inválido. Valores aceitos: "+strings.Join(accepted, ", "), nil)
				return
			}
			job.TriggerManualSync()
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - GetCronStatus")

		status := make(map[string]domain.JobStatus, len(services))
		for cronType, job := range services {
			status[cronType] = job.Status()
		}

		writeJSON(w, http.StatusOK, status)
	}
}

// GetCronReport retorna o resultado da última execução de uma cron job
func GetCronReport(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		logger.WithField("cron_type", cronType).Info("INIT - GetCronReport")

		job, ok := services[cronType]
		if !ok || job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Tipo de cron job inválido. Valores aceitos: "+strings.Join(services.types(), ", "), nil)
			return
		}

		reporter, ok := job.(CronReporter)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Cron job não gera relatório: "+cronType, nil)
			return
		}

		report := reporter.Report()
		if report == nil {
			report = []*domain.IncomeProgress{}
		}

		writeJSON(w, http.StatusOK, cronReportResponse{
			Type:   cronType,
			Status: job.Status(),
			Report: report,
		})
	}
}
