package sqlite

import (
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
)

// Repo bundles every repository over one database.
type Repo struct {
	*logRepo
	*timerRepo
	*reminderRepo
	*growthRepo
	*profileRepo
	*stashRepo
	*healthRepo
	*goalRepo
}

func NewRepo(dbGetter txStdLib.DBGetter, logger *log.Logger) *Repo {
	return &Repo{
		logRepo:      NewLogRepo(dbGetter, logger),
		timerRepo:    NewTimerRepo(dbGetter, logger),
		reminderRepo: NewReminderRepo(dbGetter, logger),
		growthRepo:   NewGrowthRepo(dbGetter, logger),
		profileRepo:  NewProfileRepo(dbGetter, logger),
		stashRepo:    NewStashRepo(dbGetter, logger),
		healthRepo:   NewHealthRepo(dbGetter, logger),
		goalRepo:     NewGoalRepo(dbGetter, logger),
	}
}
