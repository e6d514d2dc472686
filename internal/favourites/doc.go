// Package favourites manages the signed-in user's favourite ticker symbols.
//
// Every operation degrades to a safe value instead of returning an error: no
// signed-in user or an unavailable store gives false or an empty list. Writes use
// the store's atomic arrayUnion and arrayRemove, never a rewrite of the whole
// collection.
package favourites
