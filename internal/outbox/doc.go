// Package outbox records news service events with the transactional outbox
// pattern and relays them to Kafka.
//
// # Components
//
//   - Emitter: builds domain.OutboxEvent rows with a uuid, JSON payload and metadata
//   - Publisher: emits an event and inserts it through the transaction's OutboxRepository
//   - Relay: claims pending rows, writes them with kafka-go and records the outcome
//
// # Event Types
//
//   - article.created, article.voted, article.deleted
//   - comment.created, comment.voted, comment.deleted
//   - topic.created
//
// # Usage
//
// Inside a mutation's transaction:
//
//	err := store.WithTx(ctx, func(tx repository.Store) error {
//	    a, err := tx.Articles().Create(ctx, in)
//	    if err != nil {
//	        return err
//	    }
//	    return publisher.Publish(ctx, tx.Outbox(), outbox.ArticleCreated(a))
//	})
//
// In the relay process:
//
//	relay := outbox.NewRelay(store, outbox.NewKafkaWriter(cfg.Kafka, logger), relayCfg, logger, metrics)
//	err := relay.Run(ctx)
package outbox
