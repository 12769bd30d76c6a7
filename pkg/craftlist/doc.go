// Package craftlist implements the content backend for a game-server
// directory site: the server listing itself, user roles, support tickets,
// a small blog (categories and posts), custom pages, promotional banners,
// and site-wide settings.
//
// It exposes a single Service interface that orchestrates validation,
// slug management, and cascading deletes on top of a pluggable Repository
// port. Repository implementations (memory, Postgres) live under repo/;
// blob storage for banner images lives under storage/. The HTTP layer in
// api/ is a thin translation of requests onto Service calls.
//
// Uniqueness and cascade invariants belong to the Repository: a category
// or page slug is unique among live rows, and deleting a category removes
// every post referencing it as one atomic unit. The memory repository
// enforces both under a single lock; the Postgres repository relies on
// unique indexes and a transaction.
package craftlist
