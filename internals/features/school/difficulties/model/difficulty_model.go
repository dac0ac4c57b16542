// file: internals/features/school/difficulties/model/difficulty_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================================================================
   MODEL: topics
   Unit pengelompokan difficulty di dalam course.
============================================================================= */

type TopicModel struct {
	TopicID       uuid.UUID `gorm:"column:topic_id;type:uuid;primaryKey" json:"topic_id"`
	TopicCourseID uuid.UUID `gorm:"column:topic_course_id;type:uuid;not null;index:idx_topic_course" json:"topic_course_id"`

	TopicName        string  `gorm:"column:topic_name;type:varchar(120);not null" json:"topic_name"`
	TopicDescription *string `gorm:"column:topic_description" json:"topic_description,omitempty"`

	TopicCreatedAt time.Time      `gorm:"column:topic_created_at;type:timestamptz;not null;autoCreateTime" json:"topic_created_at"`
	TopicUpdatedAt time.Time      `gorm:"column:topic_updated_at;type:timestamptz;not null;autoUpdateTime" json:"topic_updated_at"`
	TopicDeletedAt gorm.DeletedAt `gorm:"column:topic_deleted_at;index" json:"topic_deleted_at,omitempty"`
}

func (TopicModel) TableName() string { return "topics" }

func (m *TopicModel) BeforeCreate(_ *gorm.DB) error {
	if m.TopicID == uuid.Nil {
		m.TopicID = uuid.New()
	}
	return nil
}

/* =============================================================================
   MODEL: difficulties
   Satu skill/topik yang bisa jadi defisiensi siswa. Immutable setelah dibuat
   (tidak ada endpoint update selain soft delete).
============================================================================= */

type DifficultyModel struct {
	DifficultyID       uuid.UUID `gorm:"column:difficulty_id;type:uuid;primaryKey" json:"difficulty_id"`
	DifficultyCourseID uuid.UUID `gorm:"column:difficulty_course_id;type:uuid;not null;index:idx_difficulty_course" json:"difficulty_course_id"`
	DifficultyTopicID  uuid.UUID `gorm:"column:difficulty_topic_id;type:uuid;not null;index:idx_difficulty_topic" json:"difficulty_topic_id"`

	DifficultyName        string  `gorm:"column:difficulty_name;type:varchar(160);not null" json:"difficulty_name"`
	DifficultyDescription *string `gorm:"column:difficulty_description" json:"difficulty_description,omitempty"`

	DifficultyCreatedAt time.Time      `gorm:"column:difficulty_created_at;type:timestamptz;not null;autoCreateTime" json:"difficulty_created_at"`
	DifficultyUpdatedAt time.Time      `gorm:"column:difficulty_updated_at;type:timestamptz;not null;autoUpdateTime" json:"difficulty_updated_at"`
	DifficultyDeletedAt gorm.DeletedAt `gorm:"column:difficulty_deleted_at;index" json:"difficulty_deleted_at,omitempty"`
}

func (DifficultyModel) TableName() string { return "difficulties" }

func (m *DifficultyModel) BeforeCreate(_ *gorm.DB) error {
	if m.DifficultyID == uuid.Nil {
		m.DifficultyID = uuid.New()
	}
	return nil
}
