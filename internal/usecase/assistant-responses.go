package usecase

// Canned assistant replies. Figures are fixed and not computed from live data.
const (
	MessageAssistantGreeting = "Hello! I'm your AI finance assistant. I can help you understand your spending patterns, suggest savings strategies, and recommend investments tailored to your goals. How can I help you today?"
	ResponseSpending         = "Based on your transaction data, I've identified that you're overspending in the **Shopping** category ($820 this month, 15% above your average). Your **Entertainment** expenses are also slightly elevated at $380. \n\nHere are my suggestions:\n• Set a monthly budget cap of $600 for shopping\n• Consider using the 24-hour rule before making non-essential purchases\n• Your food expenses ($950) are well-managed!"
	ResponseSavings          = "Great question! Your current savings rate is 36.2%, which is excellent. Here's how you can save even more:\n\n**Quick wins:**\n• Reduce shopping expenses by $200/month → +$2,400/year\n• Use your cashback wallet efficiently (currently $4,800)\n• Set up automatic transfers of $500 to your Emergency Fund\n\n**AI Recommendation:** With these changes, you could increase your annual savings by $5,400, reaching a 45% savings rate!"
	ResponseInvestment       = "Based on your financial profile and risk tolerance, I recommend a diversified approach:\n\n**Recommended Allocation:**\n• **SIP (50%):** Best for long-term wealth creation, expected 12-15% returns\n• **Fixed Deposit (30%):** Guaranteed returns for stability, 6-7% p.a.\n• **ETF/Paper Gold (20%):** Inflation hedge and portfolio diversification\n\n**Why this works for you:**\nYour steady income of $8,500/month and strong savings rate ($3,079/month) make you ideal for SIP investments. The emergency fund provides a safety net, so you can take moderate risks for better returns."
	ResponseHealthScore      = "Your Financial Health Score is **8.2/10** - Excellent! 🎉\n\n**What's working:**\n✓ Strong savings rate (36.2%)\n✓ Diverse wallet allocation\n✓ Low debt-to-income ratio\n✓ Consistent income stream\n\n**Areas for improvement:**\n• Emergency fund could be 6 months of expenses ($32,520 vs current $15,000)\n• Consider starting retirement investments\n• Optimize cashback wallet usage"
	ResponseEmergencyFund    = "Your emergency fund currently stands at **$15,000**. Financial experts recommend 6 months of expenses, which for you would be:\n\n6 × $5,420 = **$32,520**\n\n**Action Plan:**\n• Current gap: $17,520\n• Suggested monthly contribution: $500\n• Time to goal: ~35 months (3 years)\n\n💡 **Quick tip:** Transfer your next bonus or tax refund directly to your emergency fund to accelerate this goal!"
	ResponseCapabilities     = "I'm here to help with your finances! I can assist you with:\n\n• Analyzing your spending patterns\n• Creating personalized savings strategies\n• Recommending suitable investments\n• Evaluating your financial health\n• Planning your emergency fund\n\nWhat would you like to explore?"
)
