package pipeline

// TitleScript reads the document title.
const TitleScript = `document.title`

// OuterHTMLScript reads the full serialized document.
const OuterHTMLScript = `document.documentElement.outerHTML`

// ScrollScript walks the viewport down the document in 500px steps, pausing
// between steps so viewport observers fire, then returns to the top. It
// evaluates to a promise.
const ScrollScript = `(async () => {
	for (let i = 0; i < document.body.scrollHeight; i += 500) {
		window.scrollTo(0, i);
		await new Promise(r => setTimeout(r, 100));
	}
	window.scrollTo(0, 0);
})()`

// RepairImagesScript promotes deferred image sources into src and strips
// source sets. Running it twice leaves the same src values as running it once.
const RepairImagesScript = `document.querySelectorAll('img').forEach(img => {
	const realSrc = img.getAttribute('data-src')
		|| img.getAttribute('data-lazy-src')
		|| img.getAttribute('data-original')
		|| img.getAttribute('data-lazy')
		|| img.src;
	if (realSrc && realSrc.length > 10 && !realSrc.startsWith('data:')) {
		img.src = realSrc;
		img.setAttribute('src', realSrc);
	}
	img.removeAttribute('srcset');
	img.removeAttribute('data-srcset');
});`

// SanitizeScript removes hidden and comment nodes from the live body and
// returns the title and serialized document as a JSON envelope for article
// extraction. Images, and elements that contain one, are never removed.
// Errors thrown in the page come back as an error envelope.
const SanitizeScript = `(function() {
	try {
		function isHidden(el) {
			if (!el || el.nodeType !== 1) return false;
			const style = window.getComputedStyle(el);
			if (style.display === 'none') return true;
			if (style.visibility === 'hidden') return true;
			if (parseFloat(style.opacity) === 0) return true;
			const rect = el.getBoundingClientRect();
			return rect.width <= 1 && rect.height <= 1;
		}

		document.body.querySelectorAll('*').forEach(el => {
			if (el.tagName === 'IMG' || el.querySelector('img')) return;
			if (isHidden(el)) {
				el.classList.add('distill-hidden');
			}
		});
		document.querySelectorAll('.distill-hidden').forEach(el => el.remove());

		function removeComments(node) {
			for (let i = node.childNodes.length - 1; i >= 0; i--) {
				const child = node.childNodes[i];
				if (child.nodeType === 8) {
					child.remove();
				} else if (child.nodeType === 1) {
					removeComments(child);
				}
			}
		}
		removeComments(document.body);

		return JSON.stringify({
			title: document.title || '',
			content: document.documentElement.outerHTML
		});
	} catch (e) {
		return JSON.stringify({
			title: document.title || '',
			content: '',
			error: e.toString()
		});
	}
})()`
