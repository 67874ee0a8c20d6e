package media

import (
	"gorm.io/datatypes"

	"github.com/engmhisham/utg-api/database/models"
)

func toUsageColumn(u []models.MediaUsage) datatypes.JSONSlice[models.MediaUsage] {
	return datatypes.JSONSlice[models.MediaUsage](u)
}
