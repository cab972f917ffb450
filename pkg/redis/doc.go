// Package redis connects to Redis and stores one-time OAuth state tokens in it.
//
// Connect retries the initial ping according to Config, so services can start
// before Redis is ready:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	states := redis.NewStateStorage(client, cfg)
//
// StateStorage satisfies auth.StateStorage and is safe to share between
// instances of the service. Healthcheck returns a probe for the readiness endpoint.
package redis
