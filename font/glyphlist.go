package font

// glyphNames covers the glyph names used by the predefined encodings plus
// the common Latin accented letters. Other names resolve through the uniXXXX
// and single-character rules in GlyphToRune.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@', "bracketleft": '[',
	"backslash": '\\', "bracketright": ']', "asciicircum": '^',
	"underscore": '_', "grave": '`', "braceleft": '{', "bar": '|',
	"braceright": '}', "asciitilde": '~', "nbspace": '\u00a0',

	"quoteleft": '‘', "quoteright": '’', "quotesinglbase": '‚',
	"quotedblleft": '“', "quotedblright": '”', "quotedblbase": '„',
	"guillemotleft": '«', "guillemotright": '»', "guilsinglleft": '‹',
	"guilsinglright": '›', "endash": '–', "emdash": '—', "minus": '−',
	"bullet": '•', "ellipsis": '…', "dagger": '†', "daggerdbl": '‡',
	"perthousand": '‰', "trademark": '™', "registered": '®',
	"copyright": '©', "section": '§', "paragraph": '¶',
	"periodcentered": '·', "degree": '°', "plusminus": '±',
	"multiply": '×', "divide": '÷', "fraction": '⁄', "florin": 'ƒ',
	"cent": '¢', "sterling": '£', "yen": '¥', "Euro": '€', "currency": '¤',
	"exclamdown": '¡', "questiondown": '¿', "brokenbar": '¦',
	"logicalnot": '¬', "mu": 'µ', "onehalf": '½', "onequarter": '¼',
	"threequarters": '¾', "onesuperior": '¹', "twosuperior": '²',
	"threesuperior": '³', "ordfeminine": 'ª', "ordmasculine": 'º',
	"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ', "ffi": 'ﬃ', "ffl": 'ﬄ',

	"acute": '´', "circumflex": 'ˆ', "tilde": '˜', "macron": '¯',
	"breve": '˘', "dotaccent": '˙', "dieresis": '¨', "ring": '˚',
	"cedilla": '¸', "hungarumlaut": '˝', "ogonek": '˛', "caron": 'ˇ',

	"AE": 'Æ', "ae": 'æ', "OE": 'Œ', "oe": 'œ', "Oslash": 'Ø', "oslash": 'ø',
	"Lslash": 'Ł', "lslash": 'ł', "dotlessi": 'ı', "germandbls": 'ß',
	"Eth": 'Ð', "eth": 'ð', "Thorn": 'Þ', "thorn": 'þ',
	"Scaron": 'Š', "scaron": 'š', "Zcaron": 'Ž', "zcaron": 'ž',
	"Ydieresis": 'Ÿ', "ydieresis": 'ÿ', "Yacute": 'Ý', "yacute": 'ý',
	"Aacute": 'Á', "aacute": 'á', "Agrave": 'À', "agrave": 'à',
	"Acircumflex": 'Â', "acircumflex": 'â', "Adieresis": 'Ä', "adieresis": 'ä',
	"Atilde": 'Ã', "atilde": 'ã', "Aring": 'Å', "aring": 'å',
	"Ccedilla": 'Ç', "ccedilla": 'ç',
	"Eacute": 'É', "eacute": 'é', "Egrave": 'È', "egrave": 'è',
	"Ecircumflex": 'Ê', "ecircumflex": 'ê', "Edieresis": 'Ë', "edieresis": 'ë',
	"Iacute": 'Í', "iacute": 'í', "Igrave": 'Ì', "igrave": 'ì',
	"Icircumflex": 'Î', "icircumflex": 'î', "Idieresis": 'Ï', "idieresis": 'ï',
	"Ntilde": 'Ñ', "ntilde": 'ñ',
	"Oacute": 'Ó', "oacute": 'ó', "Ograve": 'Ò', "ograve": 'ò',
	"Ocircumflex": 'Ô', "ocircumflex": 'ô', "Odieresis": 'Ö', "odieresis": 'ö',
	"Otilde": 'Õ', "otilde": 'õ',
	"Uacute": 'Ú', "uacute": 'ú', "Ugrave": 'Ù', "ugrave": 'ù',
	"Ucircumflex": 'Û', "ucircumflex": 'û', "Udieresis": 'Ü', "udieresis": 'ü',
}
