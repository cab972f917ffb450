// Package pg connects to PostgreSQL with pgx, applies the embedded goose
// migrations and implements orgauth.AccountStore on top of them.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	store := pg.NewAccountStore(pool)
//
// Accounts live in the accounts table with a unique index on email; linked
// identities live in account_identities keyed by (account_id, provider, external_id).
// A unique violation on save is reported as orgauth.ErrDuplicateEmail.
package pg
