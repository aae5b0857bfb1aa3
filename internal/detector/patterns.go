package detector

// Category: 탐지 규칙 카테고리다.
type Category string

const (
	// CategoryDirectInjection 는 직접 지시 덮어쓰기 카테고리다.
	CategoryDirectInjection Category = "direct-injection"
	// CategoryRoleplay 는 역할극/정체성 조작 카테고리다.
	CategoryRoleplay Category = "roleplay"
	// CategoryDelimiter 는 구분자/포맷 공격 카테고리다.
	CategoryDelimiter Category = "delimiter"
	// CategoryObfuscation 는 난독화 카테고리다.
	CategoryObfuscation Category = "obfuscation"
	// CategoryManipulation 는 사회공학적 조작 카테고리다.
	CategoryManipulation Category = "manipulation"
	// CategoryExtraction 는 프롬프트 추출 카테고리다.
	CategoryExtraction Category = "extraction"
	// CategoryCSSHiding 는 CSS 은닉 카테고리다.
	CategoryCSSHiding Category = "css-hiding"
	// CategoryHTMLAttrHiding 는 HTML 속성 은닉 카테고리다.
	CategoryHTMLAttrHiding Category = "html-attribute-hiding"
	// CategoryCustom 는 사용자 정의 규칙 카테고리다.
	CategoryCustom Category = "custom"
)

// categoryWeights: 카테고리별 고정 가중치 (빈도가 아닌 존재 여부로 가산)
var categoryWeights = map[Category]int{
	CategoryDirectInjection: 40,
	CategoryRoleplay:        30,
	CategoryDelimiter:       35,
	CategoryObfuscation:     35,
	CategoryManipulation:    25,
	CategoryExtraction:      30,
	CategoryCSSHiding:       20,
	CategoryHTMLAttrHiding:  25,
	CategoryCustom:          30,
}

type rawPattern struct {
	pattern string
	name    string
}

// directInjectionPatterns: 지시 무시/덮어쓰기 시도 (OWASP LLM01)
var directInjectionPatterns = []rawPattern{
	{`(?i)ignore\s+(?:all\s+)?(?:previous|prior|above|earlier|preceding)\s+(?:instructions?|prompts?|rules?|guidelines?|context)`, "ignore_previous_instructions"},
	{`(?i)forget\s+(?:all\s+)?(?:previous|prior|your|earlier)\s+(?:instructions?|prompts?|rules?|training|context)`, "forget_instructions"},
	{`(?i)disregard\s+(?:all\s+)?(?:previous|prior|your|earlier|the)\s+(?:instructions?|prompts?|rules?|guidelines?)`, "disregard_instructions"},
	{`(?i)override\s+(?:all\s+)?(?:previous|prior|your|safety|security)\s+(?:instructions?|prompts?|rules?|settings?)`, "override_instructions"},
	{`(?i)ignore\s+(?:all\s+)?(?:safety|security)\s+(?:rules?|protocols?|guidelines?|restrictions?)`, "ignore_safety"},
	{`(?i)bypass\s+(?:all\s+)?(?:safety|security|content)\s+(?:filters?|rules?|restrictions?)`, "bypass_safety"},

	{`(?i)(?:new|updated|revised|real)\s+(?:instructions?|prompts?|rules?|guidelines?)(?:\s*:|\s+are)`, "new_instructions"},
	{`(?i)(?:your|the)\s+(?:new|real|actual|true)\s+(?:instructions?|prompts?|task|purpose)(?:\s*:|\s+is)`, "real_instructions"},
	{`(?i)from\s+now\s+on[,\s]+(?:you|your|ignore|forget|disregard)`, "from_now_on"},

	{`(?i)system\s*(?:prompt|message|instruction)s?\s*:`, "system_prompt_injection"},
	{`(?i)\[(?:system|sys|admin|root)\]`, "system_tag_injection"},
	{`(?i)<\s*(?:system|sys|admin|root)\s*>`, "system_xml_injection"},
	{`(?i)###\s*(?:system|instruction|admin)`, "system_markdown_injection"},

	{`(?i)end\s+of\s+(?:system|user|assistant)\s+(?:message|prompt|input)`, "context_boundary_manipulation"},
	{`(?i)(?:begin|start)\s+(?:new\s+)?(?:conversation|session|context)`, "new_context_injection"},
	{`(?i)\[/(?:INST|SYS|USER|ASSISTANT)\]`, "llama_tag_injection"},
	{`(?i)<\|(?:im_start|im_end|endoftext|system|user|assistant)\|>`, "special_token_injection"},
}

// roleplayPatterns: 역할극/정체성 재지정 공격
var roleplayPatterns = []rawPattern{
	{`(?i)you\s+are\s+now\s+(?:a|an|the|my)?\s*\w+`, "identity_reassignment"},
	{`(?i)act\s+(?:as|like)\s+(?:a|an|the|if\s+you\s+were)?\s*\w+`, "act_as_injection"},
	{`(?i)pretend\s+(?:to\s+be|you\s+are|that\s+you)`, "pretend_injection"},
	{`(?i)roleplay\s+(?:as|that|like)`, "roleplay_injection"},
	{`(?i)imagine\s+(?:you\s+are|yourself\s+as|being)`, "imagine_injection"},
	{`(?i)(?:play|assume)\s+the\s+(?:role|character|part)\s+of`, "role_assumption"},

	{`(?i)(?:dan|dude|devil|evil|dark|shadow|uncensored|unfiltered)\s*(?:mode|gpt|ai|version|persona)`, "jailbreak_persona"},
	{`(?i)(?:developer|debug|maintenance|admin(?:istrator)?|root|sudo)\s*mode`, "privileged_mode"},
	{`(?i)enable\s+(?:developer|debug|unrestricted|unfiltered|jailbreak)\s*mode`, "enable_special_mode"},

	{`(?i)(?:let's|let\s+us)\s+(?:play|pretend|imagine|roleplay)`, "roleplay_framing"},
	{`(?i)in\s+(?:this|a)\s+(?:fictional|hypothetical|imaginary)\s+(?:scenario|world|story)`, "fictional_framing"},
	{`(?i)for\s+(?:educational|research|testing|fictional)\s+purposes?(?:\s+only)?`, "purpose_framing"},
}

// delimiterPatterns: 구분자/포맷 악용 공격
var delimiterPatterns = []rawPattern{
	{"```(?:system|python|bash|sh|cmd|powershell|exec)", "code_block_injection"},
	{`(?i)---+\s*(?:system|admin|instruction|new\s+task)`, "separator_injection"},

	{`<\s*(?:script|style|iframe|object|embed|form|input|textarea)\b`, "html_tag_injection"},
	{`(?i)<\s*(?:jailbreak|inject|attack|payload|command)\s*>`, "attack_tag_injection"},

	{`"(?:role|content|system|instruction)":\s*["\[]`, "json_structure_injection"},
	{`\{\s*["'](?:system|role|prompt|instruction)["']`, "json_object_injection"},
}

// obfuscationPatterns: 문자 치환/역순/인코딩 난독화
var obfuscationPatterns = []rawPattern{
	{`(?i)1gn0r[e3]\s+pr[e3]v[i1]0us`, "leetspeak_obfuscation"},
	{`(?i)syst[e3]m\s*pr[o0]mpt`, "leetspeak_system"},

	// 키릴 문자 lookalike
	{`[іІ][gnqр][nnп][оo][rr][еe]`, "homoglyph_ignore"},

	{`(?i)ig\s*no\s*re\s+pre\s*vi\s*ous`, "split_words"},
	{`(?i)sys\s*tem\s+pro\s*mpt`, "split_system_prompt"},

	{`(?i)(?:tpmorp|snoitcurtsni|erongi)`, "reversed_text"},

	{`\\x[0-9a-fA-F]{2}(?:\\x[0-9a-fA-F]{2}){3,}`, "hex_encoded"},
	{`\\u[0-9a-fA-F]{4}(?:\\u[0-9a-fA-F]{4}){3,}`, "unicode_encoded"},
	{`&#x?[0-9a-fA-F]+;(?:&#x?[0-9a-fA-F]+;){3,}`, "html_entity_encoded"},
}

// manipulationPatterns: 긴급성/권위/감정 조작
var manipulationPatterns = []rawPattern{
	{`(?i)(?:urgent|critical|important|emergency)[:\s]+(?:ignore|override|bypass)`, "urgency_manipulation"},
	{`(?i)(?:admin|administrator|developer|ceo|owner|boss)\s+(?:says?|requests?|orders?|demands?)`, "authority_claim"},
	{`(?i)(?:this\s+is\s+a\s+)?(?:test|drill|exercise)\s*[:\-]\s*(?:ignore|bypass|override)`, "test_framing"},

	{`(?i)(?:please|i\s+beg\s+you|you\s+must|you\s+have\s+to)\s+(?:ignore|forget|disregard)`, "emotional_manipulation"},
	{`(?i)(?:my\s+life|someone's\s+life|lives?)\s+(?:depends?|at\s+stake|in\s+danger)`, "life_threat_manipulation"},

	{`(?i)(?:i\s+will|you\s+will)\s+(?:pay|reward|tip|give)`, "bribery_attempt"},
	{`(?i)(?:or\s+else|otherwise)\s+(?:i\s+will|you\s+will|bad\s+things)`, "threat_pattern"},
}

// extractionPatterns: 시스템 프롬프트 추출 시도
var extractionPatterns = []rawPattern{
	{`(?i)(?:reveal|show|display|print|output|echo)\s+(?:your|the|system)\s+(?:prompt|instructions?|rules?)`, "prompt_extraction"},
	{`(?i)(?:what|tell\s+me)\s+(?:is|are)\s+your\s+(?:system\s+)?(?:prompt|instructions?|rules?)`, "prompt_query"},
	{`(?i)repeat\s+(?:your|the|all)\s+(?:previous|system|initial)\s+(?:text|prompt|instructions?)`, "repeat_prompt"},
	{`(?i)(?:copy|paste|print)\s+(?:everything|all\s+text)\s+(?:above|before|from\s+the\s+start)`, "copy_above"},
}

// cssHidingPatterns: CSS 기반 텍스트 은닉 (등록 시 css_ 접두어가 붙는다)
var cssHidingPatterns = []rawPattern{
	{`(?i)color\s*:\s*(?:white|#fff(?:fff)?|rgb\s*\(\s*255\s*,\s*255\s*,\s*255\s*\))`, "white_text"},
	{`(?i)color\s*:\s*(?:#f[0-9a-f]{5}|rgb\s*\(\s*2[4-5][0-9]\s*,\s*2[4-5][0-9]\s*,\s*2[4-5][0-9]\s*\))`, "near_white_text"},

	{`(?i)font-size\s*:\s*(?:0|0\.?[0-9]*(?:px|pt|em|rem)?|1px|0\.0[0-9]*em)`, "tiny_font"},

	{`(?i)(?:display\s*:\s*none|visibility\s*:\s*hidden)`, "display_none"},
	{`(?i)opacity\s*:\s*0(?:\.0+)?(?:\s*;|\s*$|\s*!)`, "zero_opacity"},

	{`(?i)position\s*:\s*(?:absolute|fixed)[^}]*(?:left|top|right|bottom)\s*:\s*-[0-9]+`, "off_screen"},
	{`(?i)(?:margin|text-indent)\s*:\s*-[0-9]{4,}px`, "negative_margin"},
	{`(?i)(?:height|width|max-height|max-width)\s*:\s*(?:0|0px|1px)`, "zero_dimension"},
	{`(?i)overflow\s*:\s*hidden[^}]*(?:height|width)\s*:\s*0`, "overflow_hidden"},

	{`(?i)clip\s*:\s*rect\s*\(\s*0`, "clip_hidden"},
	{`(?i)clip-path\s*:\s*(?:inset\s*\(\s*100%|circle\s*\(\s*0)`, "clip_path_hidden"},
}

// htmlAttrHidingPatterns: HTML 속성 기반 은닉 (등록 시 html_ 접두어가 붙는다)
var htmlAttrHidingPatterns = []rawPattern{
	{`(?i)<[^>]+style\s*=\s*["'][^"']*(?:display\s*:\s*none|visibility\s*:\s*hidden|font-size\s*:\s*0|opacity\s*:\s*0)[^"']*["']`, "inline_hidden_style"},
	{`(?i)<[^>]+class\s*=\s*["'][^"']*(?:hidden|invisible|d-none|visually-hidden|sr-only)[^"']*["']`, "hidden_class"},
	{`(?i)<[^>]+hidden(?:\s|>|=)`, "hidden_attribute"},
	{`(?i)<[^>]+aria-hidden\s*=\s*["']true["']`, "aria_hidden"},
}
