// Package market builds the comparable-movie context used to ground
// commercial analysis of a synopsis.
//
// The pipeline extracts search queries from free text, fans out to two
// independent metadata providers (TMDB as the primary source, OMDb as the
// secondary), reconciles both result sets into a single ranked list of
// Records, and renders that list as a bounded text block for prompt
// injection.
//
// Every failure mode inside the pipeline degrades to a smaller or empty
// result: a missing credential, a provider outage, or an unparseable
// extraction all shrink the context instead of failing the request.
package market
