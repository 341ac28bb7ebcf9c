// Package service implements the item operations on top of a Collection
// Store and the aggregate cache.
//
// ItemService lists, fetches and creates items. Every successful create
// invalidates the cached aggregate; a failed validation never touches the
// store and a failed persist never touches the cache. StatsService serves
// the aggregate, computing and caching it on a miss.
package service
