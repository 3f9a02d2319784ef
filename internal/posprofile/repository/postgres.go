package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MohamedAliSmk/pos-app/internal/posprofile/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a POS profile repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUser returns the profile assigned to userID with its item groups, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		p                                                    domain.Profile
		customer, priceList, companyAddress, logo, crno, gsm sql.NullString
		poBox, address, terms                                sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT p.name, p.customer, p.selling_price_list, p.company_address, p.custom_logo,
		       p.crno, p.gsm, p.p_o_box, p.address, p.terms
		FROM pos_profiles p
		JOIN pos_profile_users u ON u.pos_profile = p.name
		WHERE u.user_id = $1
		ORDER BY p.name
		LIMIT 1`, userID,
	).Scan(&p.Name, &customer, &priceList, &companyAddress, &logo, &crno, &gsm, &poBox, &address, &terms)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Customer = customer.String
	p.SellingPriceList = priceList.String
	p.CompanyAddress = companyAddress.String
	p.CustomLogo = logo.String
	p.CRNo = crno.String
	p.GSM = gsm.String
	p.POBox = poBox.String
	p.Address = address.String
	p.Terms = terms.String

	groups, err := r.listItemGroups(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	p.ItemGroups = groups
	return &p, nil
}

// Create persists the profile and its item groups in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Profile) error {
	if p.Name == "" {
		return errors.New("pos profile name is required")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pos_profiles (name, customer, selling_price_list, company_address, custom_logo,
		                          crno, gsm, p_o_box, address, terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.Name, nullString(p.Customer), nullString(p.SellingPriceList), nullString(p.CompanyAddress),
		nullString(p.CustomLogo), nullString(p.CRNo), nullString(p.GSM), nullString(p.POBox),
		nullString(p.Address), nullString(p.Terms),
	)
	if err != nil {
		return err
	}
	for i, g := range p.ItemGroups {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pos_profile_item_groups (pos_profile, item_group, idx) VALUES ($1, $2, $3)`,
			p.Name, g, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AssignUser links userID to the profile. Assigning twice is a no-op.
func (r *PostgresRepository) AssignUser(ctx context.Context, profileName, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pos_profile_users (pos_profile, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		profileName, userID)
	return err
}

func (r *PostgresRepository) listItemGroups(ctx context.Context, profileName string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_group FROM pos_profile_item_groups WHERE pos_profile = $1 ORDER BY idx, item_group`, profileName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
