package sentiment

import (
	"github.com/randalmurphal/chatgraph/pkg/chatgraph"
	"github.com/randalmurphal/chatgraph/pkg/chatgraph/llm"
)

// ResponseTemplate answers the question in a tone matching {sentiment}.
const ResponseTemplate = `You are an empathetic AI assistant that adapts its tone based on user sentiment.
User's message: {question}
Detected sentiment: {sentiment}

Please provide a response that matches the emotional tone of the user while being helpful and constructive.
If the sentiment is negative, be extra supportive and understanding.
If the sentiment is positive, match their enthusiasm.
If the sentiment is neutral, maintain a balanced and professional tone.
If the sentiment is not detected, respond neutrally.`

// GraphName names the graph built by NewGraph.
const GraphName = "sentiment"

// NewGraph builds the sentiment-aware chat graph: classify the question,
// answer it with ResponseTemplate, then log the question, sentiment, answer
// and model time. opts configure the chat node.
func NewGraph(processor llm.Processor, opts ...chatgraph.ChatOption) *chatgraph.ChatGraph {
	classify := NewNode(processor)
	chat := chatgraph.NewChatNode(chatgraph.ChatNodeName, processor, ResponseTemplate, opts...)
	log := chatgraph.NewLoggingNode(chatgraph.LogNodeName,
		chatgraph.KeyQuestion, KeySentiment, chat.OutputKey(), chatgraph.KeyExecutionTime)

	compiled, err := chatgraph.Chain(classify, chat, log).SetName(GraphName).Compile()
	if err != nil {
		panic("sentiment: graph: " + err.Error())
	}
	return chatgraph.WrapGraph(compiled, chat.OutputKey())
}
