// Package rag implements the retrieval-augmented generation engine.
//
// The engine answers natural-language questions about the Pollinet knowledge
// base by combining vector similarity search over ingested documents with
// chat-completion text generation, and falls back to a bounded whole-corpus
// context when targeted retrieval finds nothing usable.
//
// Components:
//   - Retriever: embeds a query and runs top-k similarity search
//   - Generator: grounded and fallback prompt construction + completion
//   - Engine: the orchestrator tying retrieval, generation, and fallback
//     together, plus document ingestion (chunk → embed → upsert)
//
// The engine holds no per-request state: conversation history is owned by
// the caller and passed in per query, never mutated or persisted here.
package rag
