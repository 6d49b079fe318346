// Package adapters はticketsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kanban_backend/internal/feature/tickets/domain/entity"
	"kanban_backend/internal/feature/tickets/usecase"
	"kanban_backend/internal/platform/db"
)

// sortColumns はSortFieldを実カラム名に対応付けます。
// ORDER BY句にはこの表の値のみが入ります。
var sortColumns = map[entity.SortField]string{
	entity.SortCreatedAt: "created_at",
	entity.SortUpdatedAt: "updated_at",
	entity.SortName:      "name",
}

// ticketGorm はTicketRepositoryインターフェースのGORM実装です。
type ticketGorm struct {
	db *gorm.DB
}

// ticketGormがTicketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TicketRepository = (*ticketGorm)(nil)

// NewTicketRepository は指定されたgorm.DB接続でticketGormの新しいインスタンスを生成します。
func NewTicketRepository(db *gorm.DB) *ticketGorm {
	return &ticketGorm{db: db}
}

// withAssignee は担当ユーザーの公開カラム（id, username）のみをプリロードします。
func withAssignee(tx *gorm.DB) *gorm.DB {
	return tx.Preload("AssignedUser", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username")
	})
}

// List はクエリ条件に従ってチケットを昇順で返します。
// 同順位はIDで並べるため、同じキーで再ソートしても順序は変わりません。
func (r *ticketGorm) List(ctx context.Context, q entity.ListQuery) ([]entity.Ticket, error) {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[entity.SortCreatedAt]
	}

	tx := withAssignee(r.db.WithContext(ctx))
	switch q.User.Kind {
	case entity.FilterUnassigned:
		tx = tx.Where("assigned_user_id IS NULL")
	case entity.FilterUser:
		tx = tx.Where("assigned_user_id = ?", q.User.UserID)
	}

	tickets := []entity.Ticket{}
	err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// FindByID はIDでチケットを取得します。
// 存在しない場合、usecase.ErrTicketNotFoundを返します。
func (r *ticketGorm) FindByID(ctx context.Context, id uint) (*entity.Ticket, error) {
	var t entity.Ticket
	if err := withAssignee(r.db.WithContext(ctx)).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create はチケットを追加します。関連ユーザーの行は書き込みません。
func (r *ticketGorm) Create(ctx context.Context, t *entity.Ticket) error {
	if t == nil {
		return fmt.Errorf("%w: nil ticket", usecase.ErrInvalidTicket)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update は可変フィールドをすべて上書きします。nilの担当者はNULLとして書き込まれます。
func (r *ticketGorm) Update(ctx context.Context, t *entity.Ticket) error {
	if t == nil || t.ID == 0 {
		return fmt.Errorf("%w: missing ticket id", usecase.ErrInvalidTicket)
	}
	err := r.db.WithContext(ctx).
		Model(t).
		Select("Name", "Description", "Status", "AssignedUserID", "UpdatedAt").
		Omit(clause.Associations).
		Updates(t).Error
	if err != nil {
		return translateError(err)
	}
	return nil
}

// Delete はチケットを削除します。
func (r *ticketGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Ticket{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTicketNotFound
	}
	return nil
}

// translateError は外部キー違反やNOT NULL違反を検証エラーに変換します。
func translateError(err error) error {
	if db.IsConstraintViolation(err) || db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidTicket, err)
	}
	return err
}
