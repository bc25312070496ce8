package cron

import (
	"github.com/mileusna/crontab"
	"github.com/sirupsen/logrus"

	"mew.ai/puml-api-gateway/app/domain/conversation"
	"mew.ai/puml-api-gateway/app/domain/diagram"
	"mew.ai/puml-api-gateway/app/domain/shared/ttlutil"
	"mew.ai/puml-api-gateway/app/utils/logger"
)

// CronService drives the periodic sweeps over both in-memory stores,
// independent of request traffic.
type CronService struct {
	cacheService        *diagram.CacheService
	conversationService *conversation.ConversationService
}

func NewService(cacheService *diagram.CacheService, conversationService *conversation.ConversationService) *CronService {
	return &CronService{
		cacheService:        cacheService,
		conversationService: conversationService,
	}
}

func (cs *CronService) Start(ctab *crontab.Crontab) {
	if err := ctab.AddJob(ttlutil.SweepSchedule, cs.sweep); err != nil {
		logger.GetLogger().WithError(err).Error("cron service: failed to schedule sweep")
	}
}

func (cs *CronService) sweep() {
	if cs == nil || cs.cacheService == nil || cs.conversationService == nil {
		return
	}
	cs.cacheService.Sweep()
	cs.conversationService.Sweep()
	logger.GetLogger().WithFields(logrus.Fields{
		"cache_entries": cs.cacheService.Size(),
		"conversations": cs.conversationService.Count(),
	}).Debug("store sweep completed")
}
