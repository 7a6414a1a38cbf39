// Package movierec embeds the movierec content-based recommender in a Go
// program. The catalog is loaded and indexed once by New; queries are served
// from memory and are safe for concurrent use.
//
//	client, _ := movierec.New(ctx,
//	    movierec.WithCSV("data/movies.csv"),
//	    movierec.WithFuzzy(60),
//	)
//	defer client.Close()
//	titles, _ := client.Recommend(ctx, "matricks")
//
// An optional Valkey or Redis cache memoizes answers across processes:
//
//	client, _ := movierec.New(ctx,
//	    movierec.WithCSV("data/movies.csv"),
//	    movierec.WithValkeyCache("localhost:6379", ""),
//	)
package movierec
