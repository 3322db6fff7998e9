// Package services holds cross-cutting helpers shared by the collaborator
// clients and the HTTP layer: context annotations for request correlation
// and the error taxonomy used to classify failures at the API boundary.
package services
