// Package di is the composition root of itemstore. A Container turns a
// config.Config into a ready store, aggregate cache, services and router.
//
//	c, err := di.NewContainer(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: c.Router()}
package di
