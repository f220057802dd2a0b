// internal/comissao/repository.go
package comissao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrRegraNaoEncontrada = errors.New("regra de comissão não encontrada")
	ErrBonusIndisponivel  = errors.New("bônus de indicação não está pendente")
)

type Store interface {
	ListarRegrasAtivas(ctx context.Context) ([]Regra, error)
	BuscarRegra(ctx context.Context, id string) (*Regra, error)
	CriarRegra(ctx context.Context, r *Regra) error
	SalvarRegra(ctx context.Context, r *Regra) error
	// SubstituirRegra desativa a antiga e cria a nova numa única operação.
	SubstituirRegra(ctx context.Context, antigaID string, nova *Regra) error
	ListarBonusPendentes(ctx context.Context, motoristaID string) ([]BonusIndicacao, error)
	CriarBonus(ctx context.Context, b *BonusIndicacao) error
	// MarcarBonusPagos falha se algum bônus não estiver mais pendente.
	MarcarBonusPagos(ctx context.Context, ids []string, pagamentoID string) error
	// ReverterBonus devolve a pendente os bônus de um pagamento cancelado.
	ReverterBonus(ctx context.Context, pagamentoID string) error
}

type Repository struct {
	DB *gorm.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) ListarRegrasAtivas(ctx context.Context) ([]Regra, error) {
	var list []Regra
	err := r.DB.WithContext(ctx).
		Where("ativa = ?", true).
		Order("tipo ASC, nivel ASC, updated_at DESC").
		Find(&list).Error
	return list, err
}

func (r *Repository) BuscarRegra(ctx context.Context, id string) (*Regra, error) {
	var rg Regra
	if err := r.DB.WithContext(ctx).First(&rg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegraNaoEncontrada
		}
		return nil, err
	}
	return &rg, nil
}

func (r *Repository) CriarRegra(ctx context.Context, rg *Regra) error {
	return r.DB.WithContext(ctx).Create(rg).Error
}

func (r *Repository) SalvarRegra(ctx context.Context, rg *Regra) error {
	return r.DB.WithContext(ctx).Save(rg).Error
}

func (r *Repository) SubstituirRegra(ctx context.Context, antigaID string, nova *Regra) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Regra{}).Where("id = ?", antigaID).
			Updates(map[string]interface{}{"ativa": false, "substituida_por": nova.ID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRegraNaoEncontrada
		}
		return tx.Create(nova).Error
	})
}

func (r *Repository) ListarBonusPendentes(ctx context.Context, motoristaID string) ([]BonusIndicacao, error) {
	var list []BonusIndicacao
	err := r.DB.WithContext(ctx).
		Where("motorista_id = ? AND status = ?", motoristaID, BonusPendente).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) CriarBonus(ctx context.Context, b *BonusIndicacao) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repository) MarcarBonusPagos(ctx context.Context, ids []string, pagamentoID string) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&BonusIndicacao{}).
		Where("id IN ? AND status = ?", ids, BonusPendente).
		Updates(map[string]interface{}{"status": BonusPago, "pagamento_id": pagamentoID})
	if res.Error != nil {
		return res.Error
	}
	if int(res.RowsAffected) != len(ids) {
		return fmt.Errorf("%w: %d de %d marcados", ErrBonusIndisponivel, res.RowsAffected, len(ids))
	}
	return nil
}

func (r *Repository) ReverterBonus(ctx context.Context, pagamentoID string) error {
	return r.DB.WithContext(ctx).Model(&BonusIndicacao{}).
		Where("pagamento_id = ?", pagamentoID).
		Updates(map[string]interface{}{"status": BonusPendente, "pagamento_id": nil}).Error
}
