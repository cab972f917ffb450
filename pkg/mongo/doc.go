// Package mongo connects to MongoDB and implements orgauth.AccountStore with
// one document per account and linked identities embedded in it.
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := mongo.NewAccountStore(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		return err
//	}
//
// The unique index on email makes a conflicting save fail with
// orgauth.ErrDuplicateEmail.
package mongo
