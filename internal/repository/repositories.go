package repository

import "gorm.io/gorm"

// Repositories 同步流水线用到的全部仓储
type Repositories struct {
	Games     GameRepository
	Openings  OpeningLineRepository
	Snapshots SnapshotRepository
	Teams     TeamRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Games:     NewGameRepository(db),
		Openings:  NewOpeningLineRepository(db),
		Snapshots: NewSnapshotRepository(db),
		Teams:     NewTeamRepository(db),
	}
}
