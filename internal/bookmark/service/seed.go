package service

import "linkshelf/internal/bookmark/models"

// DefaultSet is the gallery an empty store is seeded with, in display order.
func DefaultSet() []models.Bookmark {
	return []models.Bookmark{
		{Name: "ChatGPT", URL: "https://chatgpt.com", Type: "chat", Region: "us"},
		{Name: "Gemini", URL: "https://gemini.google.com", Type: "chat", Region: "us"},
		{Name: "Claude", URL: "https://claude.ai", Type: "chat", Region: "us"},
		{Name: "Perplexity", URL: "https://www.perplexity.ai", Type: "search", Region: "us"},
		{Name: "Microsoft Copilot", URL: "https://copilot.microsoft.com", Type: "chat", Region: "us"},
		{Name: "DeepSeek", URL: "https://chat.deepseek.com", Type: "chat", Region: "cn"},
		{Name: "Qwen", URL: "https://chat.qwen.ai", Type: "chat", Region: "cn"},
		{Name: "Kimi", URL: "https://kimi.moonshot.cn", Type: "chat", Region: "cn"},
		{Name: "Mistral Le Chat", URL: "https://chat.mistral.ai", Type: "chat", Region: "eu"},
		{Name: "Meta AI", URL: "https://www.meta.ai", Type: "chat", Region: "us"},
		{Name: "Midjourney", URL: "https://www.midjourney.com", Type: "image", Region: "us"},
		{Name: "Leonardo.Ai", URL: "https://leonardo.ai", Type: "image", Region: "au"},
		{Name: "Runway", URL: "https://runwayml.com", Type: "video", Region: "us"},
		{Name: "Suno", URL: "https://suno.com", Type: "audio", Region: "us"},
		{Name: "ElevenLabs", URL: "https://elevenlabs.io", Type: "audio", Region: "us"},
		{Name: "GitHub Copilot", URL: "https://github.com/features/copilot", Type: "code", Region: "us"},
		{Name: "Cursor", URL: "https://cursor.com", Type: "code", Region: "us"},
		{Name: "Hugging Face", URL: "https://huggingface.co", Type: "platform", Region: "us"},
		{Name: "Poe", URL: "https://poe.com", Type: "chat", Region: "us"},
		{Name: "DeepL", URL: "https://www.deepl.com", Type: "productivity", Region: "eu"},
	}
}
