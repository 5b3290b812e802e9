package rag

import (
	"fmt"
	"strings"
)

// Sentinel is the exact phrase the grounded system prompt instructs the
// model to reply with when the answer is not contained in the supplied
// context. The orchestrator checks answers for this phrase to trigger the
// fallback path, so the prompt below and this constant must stay the same
// string. Both reference this constant to keep them from drifting apart.
const Sentinel = "I don't have that information yet."

// FallbackRefusal is the fixed sentence the fallback prompt instructs the
// model to use for questions entirely unrelated to the domain.
const FallbackRefusal = "I'm sorry, but I only answer questions related to Pollinet, blockchain, " +
	"Solana, and Web3 technologies. Please ask me something about Pollinet!"

// groundedSystemPrompt builds the system message for grounded generation.
// Retrieved chunks are embedded verbatim and numbered so the model can cite
// them; the rules force extractive answers or the exact sentinel.
func groundedSystemPrompt(chunks []string) string {
	var context string
	if len(chunks) == 0 {
		context = "No relevant information found in the knowledge base."
	} else {
		parts := make([]string, len(chunks))
		for i, chunk := range chunks {
			parts[i] = fmt.Sprintf("[Context %d]\n%s", i+1, chunk)
		}
		context = strings.Join(parts, "\n\n")
	}

	return fmt.Sprintf(`You are a helpful knowledge base assistant for Pollinet. Your role is to answer questions ONLY using the provided context from Pollinet documents.

IMPORTANT RULES:
1. Answer questions using ONLY the information from the Context sections below.
2. If the answer is not in the provided context, respond EXACTLY with: %q
3. Never make assumptions or provide information not explicitly stated in the context.
4. Be concise and accurate.
5. You can use information from previous conversation to provide better context, but only if it's based on the provided knowledge.

Context from Pollinet documents:
%s
---`, Sentinel, context)
}

// fallbackSystemPrompt builds the system message for fallback generation.
// It grants broader latitude: the model may draw on the whole (bounded)
// corpus or general domain knowledge, refusing only unrelated questions.
func fallbackSystemPrompt(corpus []string) string {
	var context string
	if len(corpus) == 0 {
		context = "No documents in knowledge base yet."
	} else {
		context = strings.Join(corpus, "\n\n---\n\n")
	}

	return fmt.Sprintf(`You are a helpful assistant for Pollinet, a decentralized SDK enabling offline Solana transactions via Bluetooth Low Energy (BLE) mesh networks.

COMPLETE POLLINET KNOWLEDGE BASE:
%s
---

When answering questions:
1. First try to answer using the knowledge base above
2. If the question is about Pollinet, blockchain, Solana, Web3, DePIN, or related crypto topics, answer using the knowledge base or your understanding of these topics
3. If the question is COMPLETELY UNRELATED (weather, cooking, sports, entertainment, general trivia, etc.), respond EXACTLY with: %q
4. If you're unsure whether a question is related, err on the side of answering if there's any connection to blockchain/crypto/technology
5. Keep responses concise and accurate`, context, FallbackRefusal)
}
