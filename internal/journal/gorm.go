package journal

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository stores entries in a SQL database through gorm.
type GormRepository struct {
	DB *gorm.DB
}

func orderUpdates(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }

func (r *GormRepository) List(ctx context.Context, ownerID uint64) ([]Entry, error) {
	var rows []Entry
	err := r.DB.WithContext(ctx).
		Preload("Updates", orderUpdates).
		Where("owner_id = ?", ownerID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepository) Get(ctx context.Context, ownerID uint64, id string) (Entry, error) {
	var e Entry
	err := r.DB.WithContext(ctx).
		Preload("Updates", orderUpdates).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *GormRepository) Create(ctx context.Context, e Entry, ev Event) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&e).Error; err != nil {
			return err
		}
		return tx.Create(&ev).Error
	})
}

func (r *GormRepository) Mutate(ctx context.Context, ownerID uint64, id string, m Mutation) (Entry, error) {
	var out Entry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur Entry
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			First(&cur).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := orderUpdates(tx.Where("entry_id = ?", id)).Find(&cur.Updates).Error; err != nil {
			return err
		}

		before := len(cur.Updates)
		next := cur.clone()
		ev, err := m(&next)
		if err != nil {
			return err
		}
		if ev == nil {
			out = cur
			return nil
		}

		if err := tx.Omit(clause.Associations).Save(&next).Error; err != nil {
			return err
		}
		if added := next.Updates[before:]; len(added) > 0 {
			for i := range added {
				added[i].EntryID = id
			}
			if err := tx.Create(&added).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		out = next
		return nil
	})
	return out, err
}

func (r *GormRepository) Delete(ctx context.Context, ownerID uint64, id string) (Entry, error) {
	var e Entry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&e).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&Update{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&Event{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Entry{}).Error
	})
	return e, err
}

func (r *GormRepository) Days(ctx context.Context, ownerID uint64) ([]Day, error) {
	// Day is a struct, so gorm would map the column onto its fields.
	var raw []string
	err := r.DB.WithContext(ctx).Model(&Entry{}).
		Where("owner_id = ?", ownerID).
		Distinct().
		Order("day asc").
		Pluck("day", &raw).Error
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(raw))
	for _, s := range raw {
		d, err := ParseDay(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func (r *GormRepository) FindByIdempotencyKey(ctx context.Context, ownerID uint64, key string) (string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&Event{}).
		Where("owner_id = ? AND idempotency_key = ?", ownerID, key).
		Limit(1).
		Pluck("entry_id", &ids).Error
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", ErrNotFound
	}
	return ids[0], nil
}

func (r *GormRepository) Events(ctx context.Context, ownerID uint64, id string) ([]Event, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&Entry{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	var evs []Event
	err := r.DB.WithContext(ctx).
		Where("entry_id = ? AND owner_id = ?", id, ownerID).
		Order("id asc").
		Find(&evs).Error
	return evs, err
}

func (r *GormRepository) TagColors(ctx context.Context, ownerID uint64) (map[string]string, error) {
	var rows []TagColor
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, tc := range rows {
		out[tc.Tag] = tc.Color
	}
	return out, nil
}

func (r *GormRepository) SetTagColor(ctx context.Context, ownerID uint64, tag, color string) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "tag"}},
		DoUpdates: clause.AssignmentColumns([]string{"color"}),
	}).Create(&TagColor{OwnerID: ownerID, Tag: tag, Color: color}).Error
}

func (r *GormRepository) Award(ctx context.Context, a Award) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "owner_id"}, {Name: "days"}}, DoNothing: true}).
		Create(&a)
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepository) Awards(ctx context.Context, ownerID uint64) ([]Award, error) {
	awards := []Award{}
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("days asc").
		Find(&awards).Error
	return awards, err
}
